// Package content supplies the Ramadan buddy's encouragement and good deed
// ideas, either from fixed lists or from a content service.
package content

import "context"

// FallbackEncouragement is shown whenever no message can be produced
const FallbackEncouragement = "Keep up the great work! You are a Ramadan superstar! ✨"

// Suggestion is one good deed idea
type Suggestion struct {
	Title       string `json:"deed"`
	Description string `json:"description"`
}

// FallbackDeeds are offered whenever no suggestions can be produced
var FallbackDeeds = []Suggestion{
	{Title: "Help set the table", Description: "Place the dates and water for Iftar."},
	{Title: "Smile at everyone", Description: "Smiling is a form of charity!"},
	{Title: "Share a toy", Description: "Share something you love with a sibling or friend."},
}

// Provider produces buddy content. Implementations never fail; they fall
// back to the fixed content instead.
type Provider interface {
	Encouragement(ctx context.Context, name string, day int, fastedToday bool) string
	GoodDeeds(ctx context.Context, age int) []Suggestion
}

func fallbackDeeds() []Suggestion {
	return append([]Suggestion(nil), FallbackDeeds...)
}
