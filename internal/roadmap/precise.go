package roadmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	MinMonths = 1
	MaxMonths = 18
)

var validate = validator.New()

// PreciseRequest is the free-form input of the precise mode.
type PreciseRequest struct {
	TargetRole     string `json:"targetRole" validate:"required"`
	CurrentSkills  string `json:"currentSkills"`
	TimelineMonths int    `json:"timelineMonths,string" validate:"min=1,max=18"`
	Country        string `json:"country"`
}

// PreciseResult is the generated plan text and the model that wrote it.
type PreciseResult struct {
	Plan  string `json:"plan"`
	Model string `json:"model"`
}

// Validate trims the fields and checks them.
func (r *PreciseRequest) Validate() error {
	r.TargetRole = strings.TrimSpace(r.TargetRole)
	r.CurrentSkills = strings.TrimSpace(r.CurrentSkills)
	r.Country = strings.TrimSpace(r.Country)

	err := validate.Struct(r)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Field() {
		case "TargetRole":
			msgs = append(msgs, "target role is required")
		case "TimelineMonths":
			msgs = append(msgs, fmt.Sprintf("timeline must be between %d and %d months", MinMonths, MaxMonths))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field())))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// SavePayload is the body stored server-side for a precise plan.
type SavePayload struct {
	Title          string         `json:"title"`
	Source         string         `json:"source"`
	PlanText       string         `json:"planText"`
	Plan           map[string]any `json:"plan,omitempty"`
	TargetRole     string         `json:"targetRole"`
	CurrentSkills  string         `json:"currentSkills"`
	TimelineMonths string         `json:"timelineMonths"`
	Country        string         `json:"country"`
	Model          string         `json:"model"`
	SavedAt        string         `json:"savedAt"`
}

// ErrEmptyPlan is returned when there is no generated text to save.
var ErrEmptyPlan = errors.New("roadmap text is empty")

// NewSavePayload wraps generated text for saving. When the text is a JSON
// object it is stored in structured form too.
func NewSavePayload(req *PreciseRequest, text, model string, now time.Time) (*SavePayload, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyPlan
	}

	role := req.TargetRole
	if role == "" {
		role = "Roadmap"
	}
	title := role
	if req.TimelineMonths > 0 {
		title = fmt.Sprintf("%s (%d months)", role, req.TimelineMonths)
	}

	payload := &SavePayload{
		Title:          title,
		Source:         "precise",
		PlanText:       text,
		TargetRole:     req.TargetRole,
		CurrentSkills:  req.CurrentSkills,
		TimelineMonths: strconv.Itoa(req.TimelineMonths),
		Country:        req.Country,
		Model:          strings.TrimSpace(model),
		SavedAt:        now.UTC().Format(time.RFC3339),
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil && obj != nil {
		payload.Plan = obj
	}
	return payload, nil
}

var unsafeFileChars = regexp.MustCompile(`[^\w\-]+`)

// FileName is the download name for a precise plan.
func FileName(role string) string {
	if role == "" {
		role = "roadmap"
	}
	return unsafeFileChars.ReplaceAllString(role, "_") + "_roadmap.txt"
}
