package valueobjects

import "fmt"

// VisitDuration is the expected length of a visit.
type VisitDuration struct {
	Hours int `json:"hours" validate:"min=0,max=23"`
	Days  int `json:"days" validate:"min=0,max=30"`
}

func (d VisitDuration) String() string {
	return fmt.Sprintf("%dd%dh", d.Days, d.Hours)
}
