package badges

import "github.com/julianstephens/noor/internal/models"

const (
	FastingHero    models.BadgeID = "Fasting Hero"
	PunctualPrayer models.BadgeID = "Punctual Prayer"
	QiyamStar      models.BadgeID = "Qiyam Star"
	KindnessKing   models.BadgeID = "Kindness King"
	QuranVoyager   models.BadgeID = "Quran Voyager"
	RamadanRookie  models.BadgeID = "Ramadan Rookie"
)

// Badge is a catalog entry shown in the gallery
type Badge struct {
	ID          models.BadgeID
	Icon        string
	Description string
}

// Catalog lists every badge in gallery order. Kindness King, Quran Voyager and
// Ramadan Rookie have no rule in Rules, so nothing awards them yet.
var Catalog = []Badge{
	{ID: FastingHero, Icon: "🦁", Description: "Completed a full fast"},
	{ID: PunctualPrayer, Icon: "⏰", Description: "Completed all 5 daily prayers"},
	{ID: QiyamStar, Icon: "✨", Description: "Prayed Taraweeh tonight"},
	{ID: KindnessKing, Icon: "👑", Description: "Wrote down 5 good deeds"},
	{ID: QuranVoyager, Icon: "🌊", Description: "Read 10 pages of Quran"},
	{ID: RamadanRookie, Icon: "🌱", Description: "Logged your first day"},
}

// Lookup returns the catalog entry for id
func Lookup(id models.BadgeID) (Badge, bool) {
	for _, b := range Catalog {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// Unwired returns the catalog entries that no rule can award
func Unwired() []Badge {
	wired := make(map[models.BadgeID]bool, len(Rules))
	for _, r := range Rules {
		wired[r.Badge] = true
	}
	var out []Badge
	for _, b := range Catalog {
		if !wired[b.ID] {
			out = append(out, b)
		}
	}
	return out
}
