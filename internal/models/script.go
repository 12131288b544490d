package models

import (
	"encoding/json"
	"time"

	"github.com/yjkim/hue/internal/types"
)

// Property is a Pig property declared on a script (e.g. mapred.job.queue.name).
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Resource is a file or archive shipped with a script run.
type Resource struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ScriptData is the typed view of the persisted script payload.
type ScriptData struct {
	Script     string     `json:"script"`
	Name       string     `json:"name"`
	Properties []Property `json:"properties"`
	JobID      *string    `json:"job_id"`
	Parameters []string   `json:"parameters"`
	Resources  []Resource `json:"resources"`
}

// DefaultScriptData returns the payload every new script starts from: empty
// strings, empty sequences, no linked job.
func DefaultScriptData() ScriptData {
	return ScriptData{
		Properties: []Property{},
		Parameters: []string{},
		Resources:  []Resource{},
	}
}

// ScriptAttrs carries a partial update. Nil fields are left untouched; the
// payload keys outside this set are never modified by an update.
type ScriptAttrs struct {
	Script     *string
	Name       *string
	Properties []Property
	JobID      *string
	Parameters []string
	Resources  []Resource
}

// PigScript is a persisted script definition owned by a user. The payload
// lives in a single JSON column; everything the editor round-trips is in
// there, the relational fields exist for lookup and access control.
type PigScript struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`
	Document
	Data      JSON `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name for PigScript
func (PigScript) TableName() string {
	return "pig_scripts"
}

// NewPigScript builds an unsaved script owned by ownerID carrying the default
// payload.
func NewPigScript(ownerID uint64, isDesign bool) (*PigScript, error) {
	data, err := JSONFrom(DefaultScriptData())
	if err != nil {
		return nil, err
	}
	return &PigScript{
		Document: Document{OwnerID: ownerID, IsDesign: isDesign},
		Data:     data,
	}, nil
}

// ScriptData decodes the stored payload. A payload that does not decode is a
// malformed-data error.
func (s *PigScript) ScriptData() (ScriptData, error) {
	data := DefaultScriptData()
	if err := json.Unmarshal([]byte(s.Data.JSON), &data); err != nil {
		return ScriptData{}, types.NewMalformedData(err)
	}
	return data, nil
}

// UpdateFromAttrs overwrites the payload keys attrs supplies and leaves every
// other key alone, including keys written by older releases that this version
// no longer knows about. The whole update applies or an error is returned with
// the stored payload unchanged.
func (s *PigScript) UpdateFromAttrs(attrs ScriptAttrs) error {
	payload := make(map[string]json.RawMessage)
	if err := json.Unmarshal([]byte(s.Data.JSON), &payload); err != nil {
		return types.NewMalformedData(err)
	}

	updates := map[string]interface{}{}
	if attrs.Script != nil {
		updates["script"] = *attrs.Script
	}
	if attrs.Name != nil {
		updates["name"] = *attrs.Name
	}
	if attrs.Properties != nil {
		updates["properties"] = attrs.Properties
	}
	if attrs.JobID != nil {
		updates["job_id"] = *attrs.JobID
	}
	if attrs.Parameters != nil {
		updates["parameters"] = attrs.Parameters
	}
	if attrs.Resources != nil {
		updates["resources"] = attrs.Resources
	}

	for key, value := range updates {
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		payload[key] = raw
	}

	data, err := JSONFrom(payload)
	if err != nil {
		return err
	}
	s.Data = data
	return nil
}
