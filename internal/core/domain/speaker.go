package domain

// Role identifies which side of the consultation a speaker is on.
type Role string

// Available speaker roles.
const (
	// RoleClinician is the clinician leading the consultation.
	RoleClinician Role = "clinician"

	// RolePatient is the patient being seen.
	RolePatient Role = "patient"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleClinician || r == RolePatient
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// Speaker is a participant of the recorded conversation.
type Speaker struct {
	// ID is referenced by Segment.SpeakerID.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Role is clinician or patient.
	Role Role `json:"role"`
}
