package valueobjects

import "fmt"

// Visibility controls who may read a ticket. Internal tickets are readable by
// all authenticated users; restricted tickets only by business participants
// and explicit grant holders.
type Visibility string

const (
	VisibilityInternal   Visibility = "internal"
	VisibilityRestricted Visibility = "restricted"
)

func (v Visibility) String() string {
	return string(v)
}

func (v Visibility) IsValid() bool {
	return v == VisibilityInternal || v == VisibilityRestricted
}

func (v Visibility) IsInternal() bool {
	return v == VisibilityInternal
}

func NewVisibility(s string) (Visibility, error) {
	v := Visibility(s)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid visibility: %s", s)
	}
	return v, nil
}
