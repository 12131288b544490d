package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/yjkim/hue/internal/config"
	"github.com/yjkim/hue/internal/handlers"
	"github.com/yjkim/hue/internal/jobs"
	"github.com/yjkim/hue/internal/middleware"
	"github.com/yjkim/hue/internal/models"
	"github.com/yjkim/hue/internal/types"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying SQL DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.PigScript{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// setupApp wires a Fiber app the way cmd/server does, minus the HTTP extras.
func setupApp(t *testing.T, db *gorm.DB, fs *stubFS, provider jobs.Provider) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var ce *types.CustomError
			if errors.As(err, &ce) {
				code = ce.Code
			}
			return c.Status(code).JSON(fiber.Map{"message": err.Error(), "ok": false})
		},
	})

	cfg := &config.Config{
		SampleUserID: config.DefaultSampleUserID,
		MaxScripts:   config.DefaultMaxScripts,
	}
	handler := &handlers.ScriptsHandler{DB: db, Cfg: cfg, FS: fs, Jobs: provider}

	api := app.Group("/api", middleware.AuthUser(db))
	api.Get("/scripts", handler.GetScripts)
	api.Post("/scripts", handler.SaveScript)
	api.Get("/jobs/:id/output", handler.GetJobOutput)

	return app
}

type stubFS struct {
	existing map[string]bool
}

func (s *stubFS) Exists(path string) (bool, error) {
	return s.existing[path], nil
}

type stubProvider struct {
	workflows map[string]*jobs.Workflow
}

func (s *stubProvider) Workflow(id string) (*jobs.Workflow, error) {
	wf, ok := s.workflows[id]
	if !ok {
		return nil, errors.New("workflow not found")
	}
	return wf, nil
}

func createUser(t *testing.T, db *gorm.DB, id uint64, username string) models.User {
	user := models.User{ID: id, Username: username}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

// TestSaveAndListScripts exercises the POST and GET script routes end to end
func TestSaveAndListScripts(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, 1, "alice")
	app := setupApp(t, db, &stubFS{}, &stubProvider{})

	// Save a new script
	body, _ := json.Marshal(map[string]interface{}{
		"name":       "wordcount",
		"script":     "A = LOAD 'in';",
		"parameters": []string{"-param", "DATE=today"},
		"resources":  []map[string]string{{"type": "file", "value": "/tmp/udf.jar"}},
	})
	req := httptest.NewRequest("POST", "/api/scripts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.UserHeader, "alice")

	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var saved map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if saved["name"] != "wordcount" {
		t.Errorf("Expected name 'wordcount', got %v", saved["name"])
	}
	if saved["isDesign"] != true {
		t.Errorf("Expected isDesign=true, got %v", saved["isDesign"])
	}

	// List it back
	req = httptest.NewRequest("GET", "/api/scripts", nil)
	req.Header.Set(middleware.UserHeader, "alice")

	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var listed []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("Expected 1 script, got %d", len(listed))
	}
	if listed[0]["script"] != "A = LOAD 'in';" {
		t.Errorf("Expected script text round-trip, got %v", listed[0]["script"])
	}
}

// TestSaveScriptFlexInput verifies tolerance for string ids and single-value lists
func TestSaveScriptFlexInput(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, 1, "alice")
	app := setupApp(t, db, &stubFS{}, &stubProvider{})

	req := httptest.NewRequest("POST", "/api/scripts",
		bytes.NewReader([]byte(`{"id":"0","name":"loose","script":"","parameters":"single","resources":{"type":"file","value":"/x"}}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.UserHeader, "alice")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var saved map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	params, ok := saved["parameters"].([]interface{})
	if !ok || len(params) != 1 || params[0] != "single" {
		t.Errorf("Expected parameters ['single'], got %v", saved["parameters"])
	}
}

// TestSaveScriptValidation rejects bodies without a name
func TestSaveScriptValidation(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, 1, "alice")
	app := setupApp(t, db, &stubFS{}, &stubProvider{})

	req := httptest.NewRequest("POST", "/api/scripts", bytes.NewReader([]byte(`{"script":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.UserHeader, "alice")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

// TestAuthRequired rejects requests without a resolvable user
func TestAuthRequired(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(t, db, &stubFS{}, &stubProvider{})

	req := httptest.NewRequest("GET", "/api/scripts", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Errorf("Expected status 403, got %d", resp.StatusCode)
	}

	// Unknown user is rejected the same way
	req = httptest.NewRequest("GET", "/api/scripts", nil)
	req.Header.Set(middleware.UserHeader, "ghost")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Errorf("Expected status 403, got %d", resp.StatusCode)
	}
}

// TestGetJobOutput covers the inference route
func TestGetJobOutput(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, 1, "alice")

	provider := &stubProvider{workflows: map[string]*jobs.Workflow{
		"0000001-wf": {ID: "0000001-wf", ConfDict: map[string]string{"workflowRoot": "/user/alice/out"}},
		"0000002-wf": {ID: "0000002-wf", ConfDict: map[string]string{}},
	}}
	fs := &stubFS{existing: map[string]bool{"/user/alice/out": true}}
	app := setupApp(t, db, fs, provider)

	req := httptest.NewRequest("GET", "/api/jobs/0000001-wf/output", nil)
	req.Header.Set(middleware.UserHeader, "alice")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["output"] != "/user/alice/out" {
		t.Errorf("Expected output path, got %v", result["output"])
	}
	if result["link"] != "/filebrowser/view/user/alice/out" {
		t.Errorf("Expected filebrowser link, got %v", result["link"])
	}

	// Workflow without an inferable output
	req = httptest.NewRequest("GET", "/api/jobs/0000002-wf/output", nil)
	req.Header.Set(middleware.UserHeader, "alice")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}
}
