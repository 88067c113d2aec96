package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/activity"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/shared"
)

// ActivityRecorder persists audit entries for state-changing calls.
type ActivityRecorder interface {
	Record(ctx context.Context, entry activity.Entry) error
}

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	tokens   *TokenIssuer
	activity ActivityRecorder
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenIssuer, recorder ActivityRecorder) *Service {
	return &Service{repo: repo, tokens: tokens, activity: recorder}
}

// RegisterInput carries a new account request.
type RegisterInput struct {
	Username string
	Email    string
	Name     string
	Password string
	RoleID   *int64
}

// ProfilePatch carries the mutable profile fields. Nil means unchanged.
type ProfilePatch struct {
	Username *string
	Email    *string
	Name     *string
	Avatar   *string
	Password *string
}

// Login validates credentials and issues a signed bearer token. Unknown
// identifier, wrong password and deactivated account all fail with the same
// error so callers cannot enumerate users.
func (s *Service) Login(ctx context.Context, identifier, password, ip, ua string) (string, Profile, error) {
	user, err := s.repo.FindByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		return "", Profile{}, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", Profile{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", Profile{}, shared.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", Profile{}, err
	}

	s.record(ctx, user.ID, activity.ActionLogin, ip, ua)
	return token, sanitize(user), nil
}

// Register creates a new account. The password is hashed before persistence
// and a default role is assigned when none is given. No token is issued.
func (s *Service) Register(ctx context.Context, input RegisterInput, ip, ua string) (Profile, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	taken, err := s.repo.IdentifierTaken(ctx, username, email, 0)
	if err != nil {
		return Profile{}, err
	}
	if taken {
		return Profile{}, fmt.Errorf("%w: username or email", shared.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return Profile{}, err
	}

	roleID := int64(0)
	if input.RoleID != nil {
		roleID = *input.RoleID
	} else {
		roleID, err = s.repo.DefaultRoleID(ctx)
		if err != nil {
			return Profile{}, err
		}
	}

	user, err := s.repo.CreateUser(ctx, &User{
		Username:     username,
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: string(hash),
		RoleID:       roleID,
	})
	if err != nil {
		return Profile{}, err
	}

	s.record(ctx, user.ID, activity.ActionRegister, ip, ua)
	return sanitize(user), nil
}

// ValidateToken resolves a bearer token into a caller identity. The user and
// role are re-fetched from storage on every call so deactivation and role
// changes take effect on the next request rather than at token expiry.
func (s *Service) ValidateToken(ctx context.Context, token string) (*shared.Identity, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, shared.ErrUnauthorized
	}
	return &shared.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Name:     user.Name,
		Role:     user.Role.Name,
		Permissions: shared.PermissionSet{
			CanView:   user.Role.CanView,
			CanEdit:   user.Role.CanEdit,
			CanExport: user.Role.CanExport,
			CanDelete: user.Role.CanDelete,
		},
	}, nil
}

// Logout records the audit entry only. The token itself stays valid until
// natural expiry; there is no revocation list.
func (s *Service) Logout(ctx context.Context, userID int64, ip, ua string) {
	s.record(ctx, userID, activity.ActionLogout, ip, ua)
}

// Profile returns the sanitized profile for the given user.
func (s *Service) Profile(ctx context.Context, userID int64) (Profile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return sanitize(user), nil
}

// UpdateProfile mutates the caller's own profile fields. Username and email
// uniqueness is re-validated when either changes.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, patch ProfilePatch, ip, ua string) (Profile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	updates := make(map[string]interface{})
	username := user.Username
	email := user.Email
	if patch.Username != nil && strings.TrimSpace(*patch.Username) != user.Username {
		username = strings.TrimSpace(*patch.Username)
		updates["username"] = username
	}
	if patch.Email != nil && strings.TrimSpace(*patch.Email) != user.Email {
		email = strings.TrimSpace(*patch.Email)
		updates["email"] = email
	}
	if username != user.Username || email != user.Email {
		taken, err := s.repo.IdentifierTaken(ctx, username, email, userID)
		if err != nil {
			return Profile{}, err
		}
		if taken {
			return Profile{}, fmt.Errorf("%w: username or email", shared.ErrConflict)
		}
	}
	if patch.Name != nil {
		updates["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Avatar != nil {
		updates["avatar"] = *patch.Avatar
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return Profile{}, err
		}
		updates["password_hash"] = string(hash)
	}

	updated, err := s.repo.UpdateUser(ctx, userID, updates)
	if err != nil {
		return Profile{}, err
	}

	s.record(ctx, userID, activity.ActionProfileUpdate, ip, ua)
	return sanitize(updated), nil
}

// record writes the activity entry best-effort; audit failures never fail
// the business operation.
func (s *Service) record(ctx context.Context, userID int64, action, ip, ua string) {
	if s.activity == nil {
		return
	}
	_ = s.activity.Record(ctx, activity.Entry{
		UserID:    &userID,
		Action:    action,
		IP:        ip,
		UserAgent: ua,
	})
}
