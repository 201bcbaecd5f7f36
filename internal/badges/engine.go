// Package badges maps progress mutations to newly earned badges.
//
// Evaluation is action-triggered: a rule only runs when the field it watches
// is present in the patch being applied. History is never rescanned, so a
// badge can only be earned at the moment a qualifying action happens.
package badges

import "github.com/julianstephens/noor/internal/models"

// Field names a progress field a rule is triggered by
type Field string

const (
	FieldFasted     Field = "fasted"
	FieldPrayers    Field = "prayers"
	FieldQuranPages Field = "quranPages"
	FieldGoodDeed   Field = "goodDeed"
)

// Rule awards Badge when a patch touching Trigger satisfies Earned. Earned
// sees both the patch and the merged record it produced.
type Rule struct {
	Badge   models.BadgeID
	Trigger Field
	Earned  func(patch models.ProgressPatch, rec models.ProgressRecord) bool
}

// Rules is the active rule set. Add entries here to wire new triggers.
var Rules = []Rule{
	{
		Badge:   PunctualPrayer,
		Trigger: FieldPrayers,
		Earned:  func(_ models.ProgressPatch, rec models.ProgressRecord) bool { return rec.Prayers.Count() == 5 },
	},
	{
		Badge:   QiyamStar,
		Trigger: FieldPrayers,
		Earned:  func(_ models.ProgressPatch, rec models.ProgressRecord) bool { return rec.Prayers.Count() == 6 },
	},
	{
		Badge:   FastingHero,
		Trigger: FieldFasted,
		Earned:  func(patch models.ProgressPatch, _ models.ProgressRecord) bool {
			return *patch.Fasted == models.FastFull
		},
	},
}

// Touched reports whether the patch carries field
func Touched(patch models.ProgressPatch, field Field) bool {
	switch field {
	case FieldFasted:
		return patch.Fasted != nil
	case FieldPrayers:
		return patch.Prayers != nil
	case FieldQuranPages:
		return patch.QuranPages != nil
	case FieldGoodDeed:
		return patch.GoodDeed != nil
	default:
		return false
	}
}

// Evaluate returns the badges earned by applying patch, given the merged
// record that resulted from it. Already-held badges are included; Award
// filters them.
func Evaluate(patch models.ProgressPatch, rec models.ProgressRecord) []models.BadgeID {
	return evaluate(Rules, patch, rec)
}

func evaluate(rules []Rule, patch models.ProgressPatch, rec models.ProgressRecord) []models.BadgeID {
	var earned []models.BadgeID
	for _, r := range rules {
		if !Touched(patch, r.Trigger) {
			continue
		}
		if r.Earned(patch, rec) {
			earned = append(earned, r.Badge)
		}
	}
	return earned
}

// Award returns u with id appended to its badges. If u already holds id, u is
// returned unchanged. The input record is never modified.
func Award(u models.UserRecord, id models.BadgeID) (models.UserRecord, bool) {
	if u.HasBadge(id) {
		return u, false
	}
	out := u
	out.Badges = append(append(make([]models.BadgeID, 0, len(u.Badges)+1), u.Badges...), id)
	return out, true
}
