package mcp

import (
	"log/slog"
	"time"

	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/catalog"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/planner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
// drafts may be nil, in which case the draft tools are not offered.
func New(c *catalog.Catalog, p *planner.Planner, drafts DraftSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("GYMovoo", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("GYMovoo workout planner. Normalize equipment, check which exercises a user can perform with substitutions, generate workout days and weekly plans, validate workout records, and recover auto-saved drafts."),
	)

	h := &handlers{catalog: c, planner: p, drafts: drafts, log: log, now: time.Now}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolNormalizeEquipment, Handler: h.normalizeEquipment},
		server.ServerTool{Tool: toolCheckAvailability, Handler: h.checkAvailability},
		server.ServerTool{Tool: toolSelectExercises, Handler: h.selectExercises},
		server.ServerTool{Tool: toolGeneratePlan, Handler: h.generatePlan},
		server.ServerTool{Tool: toolValidateWorkout, Handler: h.validateWorkout},
	)
	if drafts != nil {
		s.AddTools(
			server.ServerTool{Tool: toolRecoverDraft, Handler: h.recoverDraft},
			server.ServerTool{Tool: toolDiscardDraft, Handler: h.discardDraft},
		)
	}

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCatalog, Handler: h.exerciseCatalog},
		server.ServerResource{Resource: resEquipment, Handler: h.equipmentVocabulary},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	catalog *catalog.Catalog
	planner *planner.Planner
	drafts  DraftSource
	log     *slog.Logger
	now     func() time.Time
}

// --- Resource definitions ---

var resCatalog = mcp.NewResource(
	"gymovoo://catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("Every exercise with its muscles and required equipment"),
	mcp.WithMIMEType("application/json"),
)

var resEquipment = mcp.NewResource(
	"gymovoo://equipment",
	"Equipment Vocabulary",
	mcp.WithResourceDescription("Canonical equipment tags and the substitutes each one can fall back to"),
	mcp.WithMIMEType("application/json"),
)
