package service

import (
	"context"
	"errors"
	"time"

	"enci/internal/config"
	"enci/internal/dto"
	"enci/internal/model"
	"enci/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*dto.UsuarioResponse, error)
}

type authService struct {
	repo  repository.UsuarioRepository
	audit repository.AuditRepository
	cfg   *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, audit repository.AuditRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, audit: audit, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrCredencialesInvalidas
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredencialesInvalidas
	}

	// Activation gate: superusers bypass it, everyone else needs an active
	// perfil. A user without any perfil is rejected, never default-allowed.
	if !user.IsSuperuser {
		if user.Perfil == nil || !user.Perfil.EstaActivo {
			return nil, ErrCuentaInactiva
		}
	}

	return s.tokenPair(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("refresh token inválido o expirado")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("claims inválidos")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("token mal formado")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.New("token mal formado")
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, ErrCredencialesInvalidas
	}
	// Re-check the gate on refresh: a deactivated account cannot keep
	// minting tokens off an old refresh token.
	if !user.IsSuperuser {
		if user.Perfil == nil || !user.Perfil.EstaActivo {
			return nil, ErrCuentaInactiva
		}
	}

	return s.tokenPair(user)
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) tokenPair(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         usuarioToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":      user.ID.String(),
		"username":     user.Username,
		"rol":          rolDe(user),
		"is_superuser": user.IsSuperuser,
		"exp":          time.Now().Add(duration).Unix(),
		"iat":          time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// rolDe resolves the effective role: superusers without a perfil act as admin.
func rolDe(user *model.Usuario) string {
	if user.Perfil != nil {
		return user.Perfil.Rol
	}
	if user.IsSuperuser {
		return model.RolAdmin
	}
	return ""
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	resp := dto.UsuarioResponse{
		ID:          u.ID.String(),
		Username:    u.Username,
		Nombre:      u.Nombre,
		Apellido:    u.Apellido,
		Email:       u.Email,
		Rol:         rolDe(u),
		IsSuperuser: u.IsSuperuser,
	}
	if u.Perfil != nil {
		resp.EstaActivo = u.Perfil.EstaActivo
	} else {
		resp.EstaActivo = u.IsSuperuser
	}
	return resp
}
