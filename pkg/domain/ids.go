package domain

import (
	"github.com/google/uuid"

	dErrors "wellbuddie/pkg/domain-errors"
)

// SubjectID identifies the anonymous session owner of consent and assessment
// history. It is a random UUID minted at session creation and never tied to a
// real-world identity.
type SubjectID uuid.UUID

// ResultID identifies a single completed assessment result.
type ResultID uuid.UUID

// NewSubjectID mints a fresh random subject identifier.
func NewSubjectID() SubjectID { return SubjectID(uuid.New()) }

// NewResultID mints a fresh random result identifier.
func NewResultID() ResultID { return ResultID(uuid.New()) }

func (id SubjectID) String() string { return uuid.UUID(id).String() }
func (id SubjectID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id ResultID) String() string { return uuid.UUID(id).String() }
func (id ResultID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders the canonical UUID form in JSON and logs.
func (id SubjectID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *SubjectID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id ResultID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *ResultID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// ParseSubjectID parses a subject ID at a trust boundary.
//
// Errors: CodeInvalidInput when the value is empty, malformed or the nil UUID.
func ParseSubjectID(s string) (SubjectID, error) {
	u, err := parseUUID(s, "subject ID")
	return SubjectID(u), err
}

// ParseResultID parses a result ID at a trust boundary.
func ParseResultID(s string) (ResultID, error) {
	u, err := parseUUID(s, "result ID")
	return ResultID(u), err
}

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be empty")
	}
	// uuid.Parse also accepts urn/braced forms; cap length before parsing.
	if len(s) > 45 {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be nil")
	}
	return u, nil
}
