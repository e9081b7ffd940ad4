package visitor

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/orris-inc/visitorpass/internal/shared/biztime"
)

const MaxReviewCommentsLength = 500

const (
	ReasonScheduledDateRequired = "Scheduled date is required"
	ReasonScheduledDatePast     = "Scheduled date cannot be in the past"
	ReasonRequesterInactive     = "Requested by must reference an active account"
	ReasonReviewCommentsTooLong = "Review comments cannot exceed 500 characters"
)

var (
	phonePattern = regexp.MustCompile(`^[+]?[1-9][\d]{0,15}$`)
	emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	timePattern  = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)
	indexPattern = regexp.MustCompile(`\[\d+\]`)
)

// Checks run in phases. Reasons are reported phase by phase, field order within a phase.
const (
	phaseRequired = iota
	phaseBounds
	phasePattern
	phaseSchedule
)

var tagPhases = map[string]int{
	"required":      phaseRequired,
	"max":           phaseBounds,
	"min":           phaseBounds,
	"visitor_phone": phasePattern,
	"visitor_email": phasePattern,
	"hhmm":          phasePattern,
	"oneof":         phasePattern,
}

var fieldMessages = map[string]string{
	"VisitorName.required":       "Visitor name is required",
	"VisitorName.max":            "Visitor name cannot exceed 100 characters",
	"VisitorID.required":         "Visitor ID is required",
	"VisitorID.max":              "Visitor ID cannot exceed 50 characters",
	"VisitorPhone.required":      "Visitor phone is required",
	"VisitorPhone.visitor_phone": "Please enter a valid phone number",
	"VisitorEmail.visitor_email": "Please enter a valid email",
	"Purpose.required":           "Purpose of visit is required",
	"Purpose.max":                "Purpose cannot exceed 500 characters",
	"ItemsBrought.max":           "Item description cannot exceed 100 characters",
	"Department.required":        "Department is required",
	"Department.max":             "Department cannot exceed 100 characters",
	"RequestedBy.required":       "Requested by is required",
	"VisitDuration.Hours.min":    "Hours cannot be negative",
	"VisitDuration.Hours.max":    "Hours cannot exceed 23",
	"VisitDuration.Days.min":     "Days cannot be negative",
	"VisitDuration.Days.max":     "Days cannot exceed 30",
	"ScheduledTime.required":     "Scheduled time is required",
	"ScheduledTime.hhmm":         "Please enter time in HH:MM format",
	"Priority.oneof":             "Priority must be low, medium or high",
}

// Validator enforces the domain preconditions on a candidate. It holds no
// state beyond its clock and never mutates its input.
type Validator struct {
	validate *validator.Validate
	clock    biztime.Clock
}

func NewValidator(clock biztime.Clock) *Validator {
	if clock == nil {
		clock = biztime.NowUTC
	}
	v := validator.New()
	_ = v.RegisterValidation("visitor_phone", matches(phonePattern))
	_ = v.RegisterValidation("visitor_email", matches(emailPattern))
	_ = v.RegisterValidation("hhmm", matches(timePattern))
	return &Validator{validate: v, clock: clock}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

type reason struct {
	phase int
	text  string
}

// Reasons returns every failed check on c, deduplicated, in reporting order.
// An empty result means c is acceptable.
func (v *Validator) Reasons(c Candidate) []string {
	var found []reason

	if err := v.validate.Struct(c); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				found = append(found, reason{phase: tagPhases[fe.Tag()], text: messageFor(fe)})
			}
		}
	}

	switch {
	case c.ScheduledDate.IsZero():
		found = append(found, reason{phase: phaseRequired, text: ReasonScheduledDateRequired})
	case IsBeforeToday(c.ScheduledDate, v.clock()):
		found = append(found, reason{phase: phaseSchedule, text: ReasonScheduledDatePast})
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].phase < found[j].phase })

	seen := make(map[string]bool, len(found))
	out := make([]string, 0, len(found))
	for _, r := range found {
		if !seen[r.text] {
			seen[r.text] = true
			out = append(out, r.text)
		}
	}
	return out
}

// Validate returns a *ValidationError listing every reason, or nil.
func (v *Validator) Validate(c Candidate) error {
	if reasons := v.Reasons(c); len(reasons) > 0 {
		return &ValidationError{Reasons: reasons}
	}
	return nil
}

// ValidateReviewComments bounds the free-text reviewer note.
func ValidateReviewComments(comments string) error {
	if len([]rune(comments)) > MaxReviewCommentsLength {
		return &ValidationError{Reasons: []string{ReasonReviewCommentsTooLong}}
	}
	return nil
}

// IsBeforeToday reports whether day is a business day strictly earlier than the
// business day containing at. Both the validator and the expiry rule use it.
func IsBeforeToday(day, at time.Time) bool {
	return biztime.IsBeforeToday(day, at)
}

func messageFor(fe validator.FieldError) string {
	// Candidate.ItemsBrought[2] -> ItemsBrought
	ns := fe.StructNamespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	ns = indexPattern.ReplaceAllString(ns, "")

	if msg, ok := fieldMessages[ns+"."+fe.Tag()]; ok {
		return msg
	}
	return ns + " is invalid"
}
