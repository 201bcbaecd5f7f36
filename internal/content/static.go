package content

import (
	"context"
	"fmt"
)

var fastedMessages = []string{
	"Masha'Allah %s, you finished your fast on day %d! Your patience shines like the crescent moon 🌙",
	"Amazing job %s! A whole fast on day %d. Iftar dates taste sweetest after a brave day 🌴",
	"%s, you did it! Day %d of fasting complete. Ramadan is all about patience and you have lots! ⭐",
}

var tryingMessages = []string{
	"You're doing your best, %s, and that is wonderful! Day %d is a great day to share a smile 😊",
	"Keep shining, %s! On day %d remember Ramadan is about kindness to everyone around you 🏮",
	"%s is still glowing on day %d! Every small good deed lights up Ramadan ✨",
}

var deedPool = []Suggestion{
	{Title: "Help set the table", Description: "Place the dates and water for Iftar."},
	{Title: "Smile at everyone", Description: "Smiling is a form of charity!"},
	{Title: "Share a toy", Description: "Share something you love with a sibling or friend."},
	{Title: "Say thank you", Description: "Thank the person who cooked Iftar today."},
	{Title: "Tidy your room", Description: "Surprise your family with a clean space."},
	{Title: "Make a card", Description: "Draw an Eid card for a neighbour."},
	{Title: "Fill the water jug", Description: "Make sure everyone has water at Suhoor."},
	{Title: "Call a grandparent", Description: "Ask them about their favourite Ramadan memory."},
	{Title: "Feed the birds", Description: "Leave some crumbs or seeds outside."},
}

// Static picks content from fixed lists. The choice depends only on its
// inputs so the same day always shows the same message.
type Static struct{}

// NewStatic returns the offline provider
func NewStatic() Static {
	return Static{}
}

func (Static) Encouragement(_ context.Context, name string, day int, fastedToday bool) string {
	if name == "" {
		return FallbackEncouragement
	}
	if fastedToday {
		return fmt.Sprintf(fastedMessages[index(day, len(fastedMessages))], name, day)
	}
	return fmt.Sprintf(tryingMessages[index(day, len(tryingMessages))], name, day)
}

// GoodDeeds returns three ideas. Younger children get the simplest ones first.
func (Static) GoodDeeds(_ context.Context, age int) []Suggestion {
	start := 0
	if age > 8 {
		start = 3
	}
	if age > 11 {
		start = 6
	}
	out := make([]Suggestion, 3)
	copy(out, deedPool[start:start+3])
	return out
}

func index(day, n int) int {
	if day < 0 {
		day = -day
	}
	return day % n
}
