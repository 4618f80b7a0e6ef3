package models

// Content types a GenericChoice can be attached to.
const (
	ChoiceGameType       = "game_type"
	ChoiceGamePointValue = "game_point_value"
	ChoicePenaltyType    = "penalty_type"
)

// GenericChoice is a reference value shared by unrelated models, keyed by content type.
type GenericChoice struct {
	ID          int    `json:"id" yaml:"-"`
	ContentType string `json:"content_type" yaml:"content_type"`
	ShortValue  string `json:"short_value" yaml:"short_value"`
	LongValue   string `json:"long_value" yaml:"long_value"`
}
