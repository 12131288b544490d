package services

import (
	"errors"

	"github.com/yjkim/hue/internal/models"
	"github.com/yjkim/hue/pkg/logger"
	"gorm.io/gorm"
)

// LookupStatus distinguishes the outcomes of resolving a script id for edit.
// Keeping "not found" and "forbidden" separate lets the caller pick a policy
// per case instead of a catch-all.
type LookupStatus int

const (
	LookupFound LookupStatus = iota
	LookupNotFound
	LookupForbidden
)

// LookupScript loads a script by id and checks edit authorization for user.
// The returned error is reserved for unexpected storage failures; a missing
// record or a failed authorization is reported through the status.
func LookupScript(db *gorm.DB, id uint64, user models.User) (*models.PigScript, LookupStatus, error) {
	var script models.PigScript
	if err := db.First(&script, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, LookupNotFound, nil
		}
		return nil, LookupNotFound, err
	}

	if !script.IsEditable(user) {
		return nil, LookupForbidden, nil
	}

	return &script, LookupFound, nil
}

// SaveScriptInput is the upsert payload. A nil ID always creates.
type SaveScriptInput struct {
	ID         *uint64
	Name       string
	Script     string
	Parameters []string
	Resources  []models.Resource
	IsDesign   bool
}

// CreateOrUpdateScript resolves an existing record for the given id and
// updates it, or creates a fresh record owned by user. A save against a
// script the user may not edit forks a new copy instead of failing: the
// editor's contract is that saving always lands somewhere, and the original
// record stays untouched.
func CreateOrUpdateScript(db *gorm.DB, in SaveScriptInput, user models.User) (*models.PigScript, error) {
	var script *models.PigScript

	if in.ID != nil {
		found, status, err := LookupScript(db, *in.ID, user)
		if err != nil {
			return nil, err
		}
		switch status {
		case LookupFound:
			script = found
		case LookupForbidden:
			logger.Sugar.Warnw("save forbidden on existing script, creating a copy",
				"script_id", *in.ID, "user_id", user.ID)
		}
	}

	if script == nil {
		created, err := models.NewPigScript(user.ID, in.IsDesign)
		if err != nil {
			return nil, err
		}
		if err := db.Create(created).Error; err != nil {
			return nil, err
		}
		script = created
	}

	// job_id and properties are owned by other flows and left untouched here.
	attrs := models.ScriptAttrs{
		Name:       &in.Name,
		Script:     &in.Script,
		Parameters: in.Parameters,
		Resources:  in.Resources,
	}
	if err := script.UpdateFromAttrs(attrs); err != nil {
		return nil, err
	}

	if err := db.Save(script).Error; err != nil {
		return nil, err
	}

	return script, nil
}

// ScriptResponse is the listing projection consumed by the editor UI.
type ScriptResponse struct {
	ID         uint64            `json:"id"`
	Name       string            `json:"name"`
	Script     string            `json:"script"`
	Parameters []string          `json:"parameters"`
	Resources  []models.Resource `json:"resources"`
	IsDesign   bool              `json:"isDesign"`
}

// ProjectScript flattens a persisted record into its listing shape.
func ProjectScript(script *models.PigScript) (ScriptResponse, error) {
	data, err := script.ScriptData()
	if err != nil {
		return ScriptResponse{}, err
	}
	return ScriptResponse{
		ID:         script.ID,
		Name:       data.Name,
		Script:     data.Script,
		Parameters: data.Parameters,
		Resources:  data.Resources,
		IsDesign:   script.IsDesign,
	}, nil
}

// GetScripts lists the scripts visible to user: their own plus the shared
// sample owner's, newest first, capped at maxCount. A payload that fails to
// decode aborts the whole listing; hiding a corrupt record here would bury
// the one signal an operator gets.
func GetScripts(db *gorm.DB, user models.User, sampleOwnerID uint64, maxCount int) ([]ScriptResponse, error) {
	if maxCount <= 0 {
		maxCount = 200
	}

	var scripts []models.PigScript
	err := db.Where("owner_id IN ?", []uint64{user.ID, sampleOwnerID}).
		Order("id DESC").
		Limit(maxCount).
		Find(&scripts).Error
	if err != nil {
		return nil, err
	}

	responses := make([]ScriptResponse, 0, len(scripts))
	for i := range scripts {
		resp, err := ProjectScript(&scripts[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}

	return responses, nil
}
