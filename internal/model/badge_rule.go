package model

import (
	"errors"
	"fmt"
)

type RuleKind string

const (
	RuleThreshold       RuleKind = "threshold"
	RuleFirstOccurrence RuleKind = "first_occurrence"
	RuleAlwaysOnTrigger RuleKind = "always_on_trigger"
	RuleCountThreshold  RuleKind = "count_threshold"
)

var ErrInvalidBadgeRule = errors.New("invalid badge rule")

// BadgeRule is the award condition of a badge. The set of implementations is
// closed: ThresholdRule, FirstOccurrenceRule, AlwaysOnTriggerRule and
// CountThresholdRule.
type BadgeRule interface {
	Kind() RuleKind
	isBadgeRule()
}

// ThresholdRule holds once the cumulative points reach Points.
type ThresholdRule struct {
	Points int64
}

// FirstOccurrenceRule holds when Event is logged for the first time.
type FirstOccurrenceRule struct {
	Event EventKind
}

// AlwaysOnTriggerRule holds whenever Event is triggered.
type AlwaysOnTriggerRule struct {
	Event EventKind
}

// CountThresholdRule holds once Event has been logged RequiredCount times.
type CountThresholdRule struct {
	Event         EventKind
	RequiredCount int64
}

func (ThresholdRule) Kind() RuleKind       { return RuleThreshold }
func (FirstOccurrenceRule) Kind() RuleKind { return RuleFirstOccurrence }
func (AlwaysOnTriggerRule) Kind() RuleKind { return RuleAlwaysOnTrigger }
func (CountThresholdRule) Kind() RuleKind  { return RuleCountThreshold }

func (ThresholdRule) isBadgeRule()       {}
func (FirstOccurrenceRule) isBadgeRule() {}
func (AlwaysOnTriggerRule) isBadgeRule() {}
func (CountThresholdRule) isBadgeRule()  {}

// Rule decodes the persisted rule columns. Rows whose columns do not match
// their rule kind are rejected.
func (b *Badge) Rule() (BadgeRule, error) {
	switch b.RuleKind {
	case RuleThreshold:
		if b.PointsThreshold == nil || *b.PointsThreshold < 0 || b.EventTrigger != nil || b.RequiredCount != nil {
			return nil, b.ruleError("threshold rule needs a non-negative points_threshold and no event_trigger or required_count")
		}
		return ThresholdRule{Points: *b.PointsThreshold}, nil
	case RuleFirstOccurrence:
		if b.EventTrigger == nil || *b.EventTrigger == "" || b.PointsThreshold != nil || b.RequiredCount != nil {
			return nil, b.ruleError("first_occurrence rule needs an event_trigger and no points_threshold or required_count")
		}
		return FirstOccurrenceRule{Event: *b.EventTrigger}, nil
	case RuleAlwaysOnTrigger:
		if b.EventTrigger == nil || *b.EventTrigger == "" || b.PointsThreshold != nil || b.RequiredCount != nil {
			return nil, b.ruleError("always_on_trigger rule needs an event_trigger and no points_threshold or required_count")
		}
		return AlwaysOnTriggerRule{Event: *b.EventTrigger}, nil
	case RuleCountThreshold:
		if b.EventTrigger == nil || *b.EventTrigger == "" || b.PointsThreshold != nil {
			return nil, b.ruleError("count_threshold rule needs an event_trigger and no points_threshold")
		}
		if b.RequiredCount == nil || *b.RequiredCount < 1 {
			return nil, b.ruleError("count_threshold rule needs required_count >= 1")
		}
		return CountThresholdRule{Event: *b.EventTrigger, RequiredCount: *b.RequiredCount}, nil
	default:
		return nil, b.ruleError(fmt.Sprintf("unknown rule kind %q", b.RuleKind))
	}
}

// SetRule writes rule into the persisted columns, clearing the ones it does
// not use.
func (b *Badge) SetRule(rule BadgeRule) error {
	b.PointsThreshold = nil
	b.EventTrigger = nil
	b.RequiredCount = nil
	switch r := rule.(type) {
	case ThresholdRule:
		if r.Points < 0 {
			return b.ruleError("threshold must not be negative")
		}
		b.PointsThreshold = &r.Points
	case FirstOccurrenceRule:
		if r.Event == "" {
			return b.ruleError("missing event")
		}
		b.EventTrigger = &r.Event
	case AlwaysOnTriggerRule:
		if r.Event == "" {
			return b.ruleError("missing event")
		}
		b.EventTrigger = &r.Event
	case CountThresholdRule:
		if r.Event == "" || r.RequiredCount < 1 {
			return b.ruleError("count threshold needs an event and required count >= 1")
		}
		b.EventTrigger = &r.Event
		b.RequiredCount = &r.RequiredCount
	case nil:
		return b.ruleError("missing rule")
	default:
		return b.ruleError(fmt.Sprintf("unsupported rule %T", rule))
	}
	b.RuleKind = rule.Kind()
	return nil
}

func (b *Badge) ruleError(msg string) error {
	return fmt.Errorf("%w: badge %q: %s", ErrInvalidBadgeRule, b.Name, msg)
}
