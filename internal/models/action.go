package models

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/sailsmart/sailsmart/internal/errors"
)

// ActionType tags the variants of an assistant-proposed action.
type ActionType string

const (
	ActionUpdateProfileField       ActionType = "update_profile_field"
	ActionRegisterForLeg           ActionType = "register_for_leg"
	ActionUpdateRegistrationStatus ActionType = "update_registration_status"
)

// Action is the tagged-variant interface over action payloads. Each variant
// validates its own mandatory fields at construction, not inside executor
// switch arms.
type Action interface {
	Type() ActionType
	Validate() error
}

// UpdateProfileFieldAction proposes a change to one AI-writable profile
// field. The new value is deliberately absent at creation: the assistant
// records which field to change and why, the user authors the value at
// approval time.
type UpdateProfileFieldAction struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (UpdateProfileFieldAction) Type() ActionType { return ActionUpdateProfileField }

func (a UpdateProfileFieldAction) Validate() error {
	if a.Field == "" {
		return apperrors.New(apperrors.CodeInvalidValue, "update_profile_field requires a field")
	}
	if _, ok := AIWritableProfileFields[a.Field]; !ok {
		return apperrors.New(apperrors.CodeInvalidValue, "field %q is not writable through the assistant", a.Field)
	}
	if a.Reason == "" {
		return apperrors.New(apperrors.CodeInvalidValue, "update_profile_field requires a non-empty reason")
	}
	return nil
}

// RegisterForLegAction proposes registering the requesting user for a leg.
type RegisterForLegAction struct {
	LegID  string `json:"legId"`
	Reason string `json:"reason"`
}

func (RegisterForLegAction) Type() ActionType { return ActionRegisterForLeg }

func (a RegisterForLegAction) Validate() error {
	if a.LegID == "" {
		return apperrors.New(apperrors.CodeInvalidValue, "register_for_leg requires a legId")
	}
	if a.Reason == "" {
		return apperrors.New(apperrors.CodeInvalidValue, "register_for_leg requires a non-empty reason")
	}
	return nil
}

// UpdateRegistrationStatusAction proposes an owner decision on a crew
// registration.
type UpdateRegistrationStatusAction struct {
	RegistrationID string `json:"registrationId"`
	NewStatus      string `json:"newStatus"`
	Reason         string `json:"reason"`
}

func (UpdateRegistrationStatusAction) Type() ActionType { return ActionUpdateRegistrationStatus }

func (a UpdateRegistrationStatusAction) Validate() error {
	if a.RegistrationID == "" {
		return apperrors.New(apperrors.CodeInvalidValue, "update_registration_status requires a registrationId")
	}
	if a.NewStatus != RegistrationStatusApproved && a.NewStatus != RegistrationStatusRejected {
		return apperrors.New(apperrors.CodeInvalidValue, "newStatus must be %q or %q", RegistrationStatusApproved, RegistrationStatusRejected)
	}
	if a.Reason == "" {
		return apperrors.New(apperrors.CodeInvalidValue, "update_registration_status requires a non-empty reason")
	}
	return nil
}

// ParseAction decodes and validates an action payload for the given type.
func ParseAction(actionType string, payload []byte) (Action, error) {
	var (
		action Action
		err    error
	)
	switch ActionType(actionType) {
	case ActionUpdateProfileField:
		var a UpdateProfileFieldAction
		err = json.Unmarshal(payload, &a)
		action = a
	case ActionRegisterForLeg:
		var a RegisterForLegAction
		err = json.Unmarshal(payload, &a)
		action = a
	case ActionUpdateRegistrationStatus:
		var a UpdateRegistrationStatusAction
		err = json.Unmarshal(payload, &a)
		action = a
	default:
		return nil, apperrors.New(apperrors.CodeUnknownAction, "unknown action type: %s", actionType)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidValue, err, "invalid payload for %s", actionType)
	}
	if err := action.Validate(); err != nil {
		return nil, err
	}
	return action, nil
}

// MustMarshalAction serializes an already-validated action payload.
func MustMarshalAction(a Action) []byte {
	b, err := json.Marshal(a)
	if err != nil {
		panic(fmt.Sprintf("marshal action %s: %v", a.Type(), err))
	}
	return b
}
