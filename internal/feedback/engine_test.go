package feedback

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lucasmnd/duodle/internal/model"
)

type EngineSuite struct {
	suite.Suite
	engine *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.engine = New()
}

func (s *EngineSuite) numberAttr() model.Attribute {
	return model.Attribute{Key: "bounty", Kind: model.KindNumber}
}

func (s *EngineSuite) orderedAttr(order ...string) model.Attribute {
	return model.Attribute{Key: "rank", Kind: model.KindOrdered, Order: order}
}

func (s *EngineSuite) textAttr() model.Attribute {
	return model.Attribute{Key: "affiliation", Kind: model.KindText}
}

// Exact match

func (s *EngineSuite) TestExactMatchIsCorrect() {
	res := s.engine.Compare("Marine", "marine", s.textAttr())
	s.Equal(model.FeedbackCorrect, res.Kind)
	s.Equal("Marine", res.Label)
}

func (s *EngineSuite) TestExactMatchTrimsAndFoldsCase() {
	res := s.engine.Compare("  PIRATE ", "pirate", s.textAttr())
	s.Equal(model.FeedbackCorrect, res.Kind)
}

func (s *EngineSuite) TestIdenticalSentinelsAreCorrect() {
	// "unknown" against "unknown" matches exactly before sentinel handling
	res := s.engine.Compare("Unknown", "unknown", s.textAttr())
	s.Equal(model.FeedbackCorrect, res.Kind)
}

func (s *EngineSuite) TestSelfComparisonIsCorrectForEveryKind() {
	cases := []struct {
		attr  model.Attribute
		value any
	}{
		{s.numberAttr(), "7"},
		{s.orderedAttr("low", "mid", "high"), "mid"},
		{s.textAttr(), "Straw Hats"},
		{model.Attribute{Key: "g", Kind: model.KindTextGroup, Groups: [][]string{{"a", "b"}}}, "a"},
	}
	for _, tc := range cases {
		res := s.engine.Compare(tc.value, tc.value, tc.attr)
		s.Equal(model.FeedbackCorrect, res.Kind, "kind %s", tc.attr.Kind)
	}
	res := s.engine.Compare([]string{"Fire", "Ice"}, []string{"ice", "fire"}, model.Attribute{Key: "m", Kind: model.KindMultiple})
	s.Equal(model.FeedbackCorrect, res.Kind)
}

// Sentinels

func (s *EngineSuite) TestSentinelGuessIsWrong() {
	for _, v := range []any{nil, "", "  ", "unknown", "None"} {
		res := s.engine.Compare(v, "Marine", s.textAttr())
		s.Equal(model.FeedbackWrong, res.Kind, "value %v", v)
	}
}

func (s *EngineSuite) TestSentinelTargetIsWrong() {
	res := s.engine.Compare("Marine", "unknown", s.textAttr())
	s.Equal(model.FeedbackWrong, res.Kind)
}

func (s *EngineSuite) TestEmptyGuessLabelIsDash() {
	res := s.engine.Compare("", "Marine", s.textAttr())
	s.Equal("-", res.Label)
}

func (s *EngineSuite) TestSentinelInDeclaredOrderIsComparable() {
	attr := s.orderedAttr("none", "weak", "strong")
	res := s.engine.Compare("None", "weak", attr)
	s.Equal(model.FeedbackClose, res.Kind)
	s.Equal(model.DirectionLower, res.Direction)
}

func (s *EngineSuite) TestSentinelOutsideDeclaredOrderIsWrong() {
	attr := s.orderedAttr("weak", "strong")
	res := s.engine.Compare("unknown", "weak", attr)
	s.Equal(model.FeedbackWrong, res.Kind)
}

// Numeric

func (s *EngineSuite) TestNumericBelowByTwoIsLower() {
	res := s.engine.Compare("5", "7", s.numberAttr())
	s.Equal(model.FeedbackLower, res.Kind)
	s.Empty(res.Direction)
}

func (s *EngineSuite) TestNumericAdjacentIsCloseWithDirection() {
	res := s.engine.Compare("6", "7", s.numberAttr())
	s.Equal(model.FeedbackClose, res.Kind)
	s.Equal(model.DirectionLower, res.Direction)

	res = s.engine.Compare("8", "7", s.numberAttr())
	s.Equal(model.FeedbackClose, res.Kind)
	s.Equal(model.DirectionHigher, res.Direction)
}

func (s *EngineSuite) TestNumericAboveIsHigher() {
	res := s.engine.Compare("19", "7", s.numberAttr())
	s.Equal(model.FeedbackHigher, res.Kind)
}

func (s *EngineSuite) TestNumericEqualValuesDifferentSpelling() {
	res := s.engine.Compare("7.0", "7", s.numberAttr())
	s.Equal(model.FeedbackCorrect, res.Kind)
}

func (s *EngineSuite) TestNumericUnparsableIsWrong() {
	res := s.engine.Compare("tall", "7", s.numberAttr())
	s.Equal(model.FeedbackWrong, res.Kind)
}

func (s *EngineSuite) TestNumericAcceptsNativeNumbers() {
	res := s.engine.Compare(float64(6), float64(7), s.numberAttr())
	s.Equal(model.FeedbackClose, res.Kind)
	s.Equal(model.DirectionLower, res.Direction)
	s.Equal("6", res.Label)
}

// Ordered scale

func (s *EngineSuite) TestOrderedEqualRankIsCorrect() {
	attr := s.orderedAttr("East Blue", "Alabasta", "Marineford")
	res := s.engine.Compare("alabasta", "Alabasta", attr)
	s.Equal(model.FeedbackCorrect, res.Kind)
}

func (s *EngineSuite) TestOrderedAdjacentIsClose() {
	attr := s.orderedAttr("East Blue", "Alabasta", "Marineford")
	res := s.engine.Compare("East Blue", "Alabasta", attr)
	s.Equal(model.FeedbackClose, res.Kind)
	s.Equal(model.DirectionLower, res.Direction)
}

func (s *EngineSuite) TestOrderedDistantIsHigherOrLower() {
	attr := s.orderedAttr("East Blue", "Alabasta", "Marineford")
	res := s.engine.Compare("Marineford", "East Blue", attr)
	s.Equal(model.FeedbackHigher, res.Kind)

	res = s.engine.Compare("East Blue", "Marineford", attr)
	s.Equal(model.FeedbackLower, res.Kind)
}

func (s *EngineSuite) TestOrderedSwapFlipsDirection() {
	attr := s.orderedAttr("D", "C", "B", "A")
	forward := s.engine.Compare("C", "B", attr)
	backward := s.engine.Compare("B", "C", attr)

	s.Equal(model.FeedbackClose, forward.Kind)
	s.Equal(model.FeedbackClose, backward.Kind)
	s.Equal(model.DirectionLower, forward.Direction)
	s.Equal(model.DirectionHigher, backward.Direction)
}

func (s *EngineSuite) TestOrderedRequiresExactEntryMatch() {
	// "Dragon" must not rank as "Above Dragon"
	attr := s.orderedAttr("Human", "Dragon", "Above Dragon")
	res := s.engine.Compare("Drag", "Dragon", attr)
	s.Equal(model.FeedbackWrong, res.Kind)
}

func (s *EngineSuite) TestOrderedNumericValuesCompareNumerically() {
	// Both sides parse as numbers, so the declared order is bypassed
	attr := s.orderedAttr("1", "3", "5")
	res := s.engine.Compare("4", "5", attr)
	s.Equal(model.FeedbackClose, res.Kind)
	s.Equal(model.DirectionLower, res.Direction)
}

func (s *EngineSuite) TestOrderedValueOutsideOrderIsWrong() {
	attr := s.orderedAttr("low", "high")
	res := s.engine.Compare("middling", "high", attr)
	s.Equal(model.FeedbackWrong, res.Kind)
}

// Multi-valued sets

func (s *EngineSuite) TestSetEqualIsCorrect() {
	attr := model.Attribute{Key: "types", Kind: model.KindMultiple}
	res := s.engine.Compare([]string{"Fire", "Ice"}, []string{"ice", "FIRE"}, attr)
	s.Equal(model.FeedbackCorrect, res.Kind)
}

func (s *EngineSuite) TestSetOverlapIsClose() {
	attr := model.Attribute{Key: "types", Kind: model.KindMultiple}
	res := s.engine.Compare([]string{"Fire", "Ice"}, []string{"Fire"}, attr)
	s.Equal(model.FeedbackClose, res.Kind)
	s.Equal("Fire, Ice", res.Label)
}

func (s *EngineSuite) TestSetDisjointIsWrong() {
	attr := model.Attribute{Key: "types", Kind: model.KindMultiple}
	res := s.engine.Compare([]string{"Fire"}, []string{"Water"}, attr)
	s.Equal(model.FeedbackWrong, res.Kind)
}

func (s *EngineSuite) TestSetBothEmptyIsCorrect() {
	attr := model.Attribute{Key: "types", Kind: model.KindMultiple}
	res := s.engine.Compare([]string{}, nil, attr)
	s.Equal(model.FeedbackCorrect, res.Kind)
	s.Equal("None", res.Label)
}

func (s *EngineSuite) TestSetOneEmptyIsWrong() {
	attr := model.Attribute{Key: "types", Kind: model.KindMultiple}
	res := s.engine.Compare(nil, []string{"Fire"}, attr)
	s.Equal(model.FeedbackWrong, res.Kind)
}

func (s *EngineSuite) TestSetAcceptsDecodedJSONLists() {
	attr := model.Attribute{Key: "types", Kind: model.KindMultiple}
	res := s.engine.Compare([]any{"Fire", "Ice"}, []any{"fire", "ice"}, attr)
	s.Equal(model.FeedbackCorrect, res.Kind)
}

// Grouped equivalence

func (s *EngineSuite) TestSameGroupIsClose() {
	attr := model.Attribute{
		Key:    "origin",
		Kind:   model.KindTextGroup,
		Groups: [][]string{{"North Blue", "South Blue"}, {"Grand Line"}},
	}
	res := s.engine.Compare("North Blue", "South Blue", attr)
	s.Equal(model.FeedbackClose, res.Kind)
}

func (s *EngineSuite) TestDifferentGroupsAreWrong() {
	attr := model.Attribute{
		Key:    "origin",
		Kind:   model.KindTextGroup,
		Groups: [][]string{{"North Blue", "South Blue"}, {"Grand Line"}},
	}
	res := s.engine.Compare("Grand Line", "North Blue", attr)
	s.Equal(model.FeedbackWrong, res.Kind)
}

func (s *EngineSuite) TestGroupedGivesNoSubstringCredit() {
	attr := model.Attribute{
		Key:    "origin",
		Kind:   model.KindTextGroup,
		Groups: [][]string{{"North Blue", "South Blue"}},
	}
	res := s.engine.Compare("North", "North Blue", attr)
	s.Equal(model.FeedbackWrong, res.Kind)
}

// Free text

func (s *EngineSuite) TestSubstringIsClose() {
	res := s.engine.Compare("Straw Hat", "Straw Hat Pirates", s.textAttr())
	s.Equal(model.FeedbackClose, res.Kind)
}

func (s *EngineSuite) TestSubstringWorksInBothDirections() {
	res := s.engine.Compare("Straw Hat Pirates", "Straw Hat", s.textAttr())
	s.Equal(model.FeedbackClose, res.Kind)
}

func (s *EngineSuite) TestMaleFemaleIsNeverClose() {
	res := s.engine.Compare("Male", "Female", s.textAttr())
	s.Equal(model.FeedbackWrong, res.Kind)

	res = s.engine.Compare("female", "male", s.textAttr())
	s.Equal(model.FeedbackWrong, res.Kind)
}

func (s *EngineSuite) TestClosedVocabularySuppressesSubstring() {
	attr := model.Attribute{
		Key:   "city",
		Kind:  model.KindText,
		Hints: []string{"Paris", "London"},
	}
	res := s.engine.Compare("Pari", "Paris", attr)
	s.Equal(model.FeedbackWrong, res.Kind)
}

func (s *EngineSuite) TestExplicitOrderSuppressesSubstring() {
	attr := model.Attribute{
		Key:   "arc",
		Kind:  model.KindText,
		Order: []string{"Intro", "Finale"},
	}
	res := s.engine.Compare("Intr", "Intro", attr)
	s.Equal(model.FeedbackWrong, res.Kind)
}

func (s *EngineSuite) TestUnrelatedTextIsWrong() {
	res := s.engine.Compare("Marine", "Pirate", s.textAttr())
	s.Equal(model.FeedbackWrong, res.Kind)
}

// Determinism and whole-candidate evaluation

func (s *EngineSuite) TestCompareIsDeterministic() {
	attr := s.orderedAttr("a", "b", "c")
	first := s.engine.Compare("a", "b", attr)
	for i := 0; i < 10; i++ {
		s.Equal(first, s.engine.Compare("a", "b", attr))
	}
}

func (s *EngineSuite) TestEvaluateScoresEveryAttribute() {
	attrs := []model.Attribute{
		{Key: "bounty", Kind: model.KindNumber},
		{Key: "crew", Kind: model.KindText},
	}
	guess := model.Candidate{ID: "1", Name: "Zoro", Attrs: map[string]any{
		"bounty": "6",
		"crew":   "Straw Hat Pirates",
	}}
	target := model.Candidate{ID: "2", Name: "Luffy", Attrs: map[string]any{
		"bounty": "7",
		"crew":   "Straw Hat Pirates",
	}}

	fb := s.engine.Evaluate(guess, target, attrs)

	s.Len(fb, 2)
	s.Equal(model.FeedbackClose, fb["bounty"].Kind)
	s.Equal(model.DirectionLower, fb["bounty"].Direction)
	s.Equal(model.FeedbackCorrect, fb["crew"].Kind)
}

func (s *EngineSuite) TestEvaluateHandlesMissingAttributeValues() {
	attrs := []model.Attribute{{Key: "bounty", Kind: model.KindNumber}}
	guess := model.Candidate{ID: "1", Name: "A"}
	target := model.Candidate{ID: "2", Name: "B", Attrs: map[string]any{"bounty": "3"}}

	fb := s.engine.Evaluate(guess, target, attrs)

	s.Equal(model.FeedbackWrong, fb["bounty"].Kind)
	s.Equal("-", fb["bounty"].Label)
}
