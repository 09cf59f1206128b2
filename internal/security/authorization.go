package security

import (
	"fmt"
	"log/slog"

	"github.com/mfalves/plantledger/internal/domain"
)

// Screen identifies a role-gated area of the application.
type Screen string

const (
	ScreenDashboard  Screen = "dashboard"
	ScreenActivities Screen = "activities"
	ScreenSales      Screen = "sales"
	ScreenCash       Screen = "cash"
	ScreenStats      Screen = "stats"
	ScreenUsers      Screen = "users"
	ScreenTutorial   Screen = "tutorial"
	ScreenAssistant  Screen = "assistant"
	ScreenTenants    Screen = "tenants"
)

// RoleScreens is the single source of truth for which screens a role
// may enter. Dispatch goes through this table, never through ad hoc
// role conditionals scattered around handlers.
var RoleScreens = map[domain.Role][]Screen{
	domain.RoleSuperAdmin: {
		ScreenDashboard,
		ScreenActivities,
		ScreenSales,
		ScreenCash,
		ScreenStats,
		ScreenUsers,
		ScreenTutorial,
		ScreenAssistant,
		ScreenTenants,
	},
	domain.RoleAdmin: {
		ScreenDashboard,
		ScreenActivities,
		ScreenSales,
		ScreenCash,
		ScreenStats,
		ScreenUsers,
		ScreenTutorial,
		ScreenAssistant,
	},
	domain.RoleEmployee: {
		ScreenDashboard,
		ScreenActivities,
		ScreenSales,
		ScreenCash,
		ScreenStats,
		ScreenTutorial,
		ScreenAssistant,
	},
}

// AuthorizationService answers screen-access questions from the table.
type AuthorizationService struct {
	logger *slog.Logger
}

// NewAuthorizationService creates a new authorization service
func NewAuthorizationService(logger *slog.Logger) *AuthorizationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorizationService{
		logger: logger,
	}
}

// CanAccess checks if a role may enter a screen
func (as *AuthorizationService) CanAccess(role domain.Role, screen Screen) bool {
	screens, exists := RoleScreens[role]
	if !exists {
		return false
	}
	for _, s := range screens {
		if s == screen {
			return true
		}
	}
	return false
}

// ValidateAccess validates that a role may enter a screen
func (as *AuthorizationService) ValidateAccess(role domain.Role, screen Screen) error {
	if !as.CanAccess(role, screen) {
		as.logger.Warn("screen access denied",
			slog.String("role", string(role)),
			slog.String("screen", string(screen)),
		)
		return fmt.Errorf("access denied: %s role cannot open %s: %w", role, screen, domain.ErrForbidden)
	}
	return nil
}

// ScreensFor returns all screens a role may enter, in menu order.
func (as *AuthorizationService) ScreensFor(role domain.Role) []Screen {
	return RoleScreens[role]
}
