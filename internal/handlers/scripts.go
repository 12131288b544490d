package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/yjkim/hue/internal/config"
	"github.com/yjkim/hue/internal/hdfs"
	"github.com/yjkim/hue/internal/jobs"
	"github.com/yjkim/hue/internal/models"
	"github.com/yjkim/hue/internal/services"
	"github.com/yjkim/hue/internal/types"
	"github.com/yjkim/hue/internal/utils"
	"gorm.io/gorm"
)

// ScriptsHandler handles the script store routes
type ScriptsHandler struct {
	DB   *gorm.DB
	Cfg  *config.Config
	FS   hdfs.FileSystem
	Jobs jobs.Provider
}

// saveScriptBody tolerates the editor's loose JSON: ids arrive as numbers or
// strings, single parameters/resources as bare values or arrays.
type saveScriptBody struct {
	ID         types.FlexUint64                `json:"id"`
	Name       string                          `json:"name"`
	Script     string                          `json:"script"`
	Parameters types.FlexList[string]          `json:"parameters"`
	Resources  types.FlexList[models.Resource] `json:"resources"`
	IsDesign   *bool                           `json:"isDesign"`
}

// GetScripts handles GET /api/scripts
// @Summary List scripts
// @Description List the requesting user's scripts plus the shared samples, newest first
// @Tags Scripts
// @Produce json
// @Param max query int false "Maximum number of scripts to return"
// @Success 200 {array} services.ScriptResponse
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /scripts [get]
func (h *ScriptsHandler) GetScripts(c *fiber.Ctx) error {
	user, err := requestUser(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "scripts.authorization.user")
	}

	maxCount := c.QueryInt("max", h.Cfg.MaxScripts)
	if maxCount <= 0 || maxCount > h.Cfg.MaxScripts {
		maxCount = h.Cfg.MaxScripts
	}

	scripts, err := services.GetScripts(h.DB, user, h.Cfg.SampleUserID, maxCount)
	if err != nil {
		return serviceError(c, err, "getScripts")
	}

	return c.Status(fiber.StatusOK).JSON(scripts)
}

// SaveScript handles POST /api/scripts
// @Summary Create or update a script
// @Description Upsert a script; saving over a script owned by someone else creates a copy
// @Tags Scripts
// @Accept json
// @Produce json
// @Param body body saveScriptBody true "Script to save"
// @Success 200 {object} services.ScriptResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /scripts [post]
func (h *ScriptsHandler) SaveScript(c *fiber.Ctx) error {
	user, err := requestUser(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "scripts.authorization.user")
	}

	var body saveScriptBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "scripts.validation.input")
	}
	if body.Name == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "scripts.validation.input")
	}

	in := services.SaveScriptInput{
		Name:       body.Name,
		Script:     body.Script,
		Parameters: body.Parameters.Slice(),
		Resources:  body.Resources.Slice(),
		IsDesign:   true,
	}
	if body.IsDesign != nil {
		in.IsDesign = *body.IsDesign
	}
	if id := body.ID.Uint64(); id != 0 {
		in.ID = &id
	}

	script, err := services.CreateOrUpdateScript(h.DB, in, user)
	if err != nil {
		return serviceError(c, err, "saveScript")
	}

	resp, err := services.ProjectScript(script)
	if err != nil {
		return serviceError(c, err, "saveScript")
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetJobOutput handles GET /api/jobs/:id/output
// @Summary Infer a workflow's output path
// @Description Best-effort output inference from the workflow configuration, with a filebrowser link
// @Tags Jobs
// @Produce json
// @Param id path string true "Workflow ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /jobs/{id}/output [get]
func (h *ScriptsHandler) GetJobOutput(c *fiber.Ctx) error {
	if _, err := requestUser(c); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "scripts.authorization.user")
	}

	id := c.Params("id")

	wf, err := h.Jobs.Workflow(id)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadGateway, "jobs.workflow")
	}

	output := services.GetWorkflowOutput(wf, h.FS)
	if output == "" {
		return utils.NotFoundResponse(c, "No output available for this workflow")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"output": output,
		"link":   hdfs.Link(output),
	})
}

// HealthHandler handles GET /api/health
type HealthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// Health reports service health
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	result := services.HealthCheck(h.Cfg, h.DB)
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
