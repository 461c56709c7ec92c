package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/formatting"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
)

type timeFieldError struct {
	field string
	value string
}

func (e *timeFieldError) Error() string {
	return fmt.Sprintf("Invalid %s: %q is not an RFC 3339 timestamp", e.field, e.value)
}

// timestamp is an optional RFC 3339 instant. An empty string counts as absent.
type timestamp struct {
	field string
	t     *time.Time
}

func (ts *timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return &timeFieldError{field: ts.field, value: string(b)}
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return &timeFieldError{field: ts.field, value: s}
	}
	ts.t = &t
	return nil
}

type bookingRequest struct {
	StaffID      *int64    `json:"staffId"`
	ClientName   *string   `json:"clientName"`
	ClientPhone  *string   `json:"clientPhone"`
	StartTime    timestamp `json:"startTime"`
	EndTime      timestamp `json:"endTime"`
	Address      *string   `json:"address"`
	Instructions *string   `json:"instructions"`
}

func newBookingRequest() *bookingRequest {
	return &bookingRequest{
		StartTime: timestamp{field: "startTime"},
		EndTime:   timestamp{field: "endTime"},
	}
}

func (req *bookingRequest) createInput() service.CreateBookingInput {
	return service.CreateBookingInput{
		StaffID:      req.StaffID,
		ClientName:   req.ClientName,
		ClientPhone:  req.ClientPhone,
		StartTime:    req.StartTime.t,
		EndTime:      req.EndTime.t,
		Address:      req.Address,
		Instructions: req.Instructions,
	}
}

func (req *bookingRequest) updateInput() service.UpdateBookingInput {
	return service.UpdateBookingInput{
		StaffID:      req.StaffID,
		ClientName:   req.ClientName,
		ClientPhone:  req.ClientPhone,
		StartTime:    req.StartTime.t,
		EndTime:      req.EndTime.t,
		Address:      req.Address,
		Instructions: req.Instructions,
	}
}

type timeRangeRequest struct {
	StartMinute *int `json:"startMinute"`
	EndMinute   *int `json:"endMinute"`
}

type dayAvailabilityRequest struct {
	DayOfWeek  string             `json:"dayOfWeek"`
	TimeRanges []timeRangeRequest `json:"timeRanges"`
}

type createStaffRequest struct {
	Name         string                   `json:"name"`
	Email        string                   `json:"email"`
	Availability []dayAvailabilityRequest `json:"availability"`
}

type updateStaffRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	IsActive *bool   `json:"isActive"`
}

type replaceAvailabilityRequest struct {
	Availability []dayAvailabilityRequest `json:"availability"`
}

func availabilityInput(days []dayAvailabilityRequest) []service.DayAvailabilityInput {
	out := make([]service.DayAvailabilityInput, 0, len(days))
	for _, d := range days {
		in := service.DayAvailabilityInput{
			DayOfWeek:  d.DayOfWeek,
			TimeRanges: make([]service.TimeRangeInput, 0, len(d.TimeRanges)),
		}
		for _, tr := range d.TimeRanges {
			in.TimeRanges = append(in.TimeRanges, service.TimeRangeInput{
				StartMinute: tr.StartMinute,
				EndMinute:   tr.EndMinute,
			})
		}
		out = append(out, in)
	}
	return out
}

type timeRangeView struct {
	StartMinute int    `json:"startMinute"`
	EndMinute   int    `json:"endMinute"`
	Label       string `json:"label"`
}

type availabilityView struct {
	ID         int64           `json:"id"`
	DayOfWeek  string          `json:"dayOfWeek"`
	TimeRanges []timeRangeView `json:"timeRanges"`
}

type staffView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`

	// nil when availability was not loaded; an empty set still renders as [].
	Availabilities *[]availabilityView `json:"availabilities,omitempty"`
}

type staffPageView struct {
	Items      []staffView        `json:"items"`
	Pagination service.Pagination `json:"pagination"`
}

func newAvailabilityViews(set model.AvailabilitySet) []availabilityView {
	views := make([]availabilityView, 0, len(set))
	for _, b := range set {
		v := availabilityView{
			ID:         b.ID,
			DayOfWeek:  string(b.DayOfWeek),
			TimeRanges: make([]timeRangeView, 0, len(b.TimeRanges)),
		}
		for _, tr := range b.TimeRanges {
			v.TimeRanges = append(v.TimeRanges, timeRangeView{
				StartMinute: tr.StartMinute,
				EndMinute:   tr.EndMinute,
				Label:       formatting.FormatMinuteRange(tr.StartMinute, tr.EndMinute),
			})
		}
		views = append(views, v)
	}
	return views
}

func newStaffView(s *model.Staff) staffView {
	v := staffView{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
	}
	if s.Availabilities != nil {
		views := newAvailabilityViews(s.Availabilities)
		v.Availabilities = &views
	}
	return v
}
