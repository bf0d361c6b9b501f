package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nichelens-be/internal/config"
	"nichelens-be/internal/dto"
	"nichelens-be/internal/entity"
	"nichelens-be/internal/events"
	"nichelens-be/internal/pkg/logger"
	"nichelens-be/internal/repository/memory"
	"nichelens-be/internal/repository/specification"
	"nichelens-be/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	ProviderX = "x"

	DefaultDisplayName = "Niche Creator"
	defaultAvatarURL   = "https://api.dicebear.com/7.x/shapes/svg?seed="

	xUserInfoURL = "https://api.twitter.com/2/users/me?user.fields=profile_image_url,name,username"
)

var xEndpoint = oauth2.Endpoint{
	AuthURL:   "https://twitter.com/i/oauth2/authorize",
	TokenURL:  "https://api.twitter.com/2/oauth2/token",
	AuthStyle: oauth2.AuthStyleInHeader,
}

var (
	ErrUnsupportedProvider = fiber.NewError(fiber.StatusBadRequest, "unsupported provider")
	ErrInvalidState        = fiber.NewError(fiber.StatusBadRequest, "invalid or expired login state")
	ErrIdentityUnavailable = fiber.NewError(fiber.StatusServiceUnavailable, "Sign-in is not configured on this server")
)

type IOAuthService interface {
	GetLoginURL(provider string) (string, error)
	HandleCallback(ctx context.Context, provider, code, state string) (string, error)
	GetSession(ctx context.Context, userId uuid.UUID) (*dto.SessionResponse, error)
}

type oauthService struct {
	uowFactory  unitofwork.RepositoryFactory
	states      *memory.OAuthStateRepository
	providers   map[string]*oauth2.Config
	userInfoURL map[string]string
	jwtSecret   string
	jwtTTL      time.Duration
	publisher   events.Publisher
	logger      logger.ILogger
	now         func() time.Time
}

func NewOAuthService(
	uowFactory unitofwork.RepositoryFactory,
	states *memory.OAuthStateRepository,
	cfg *config.Config,
	publisher events.Publisher,
	logger logger.ILogger,
) IOAuthService {
	providers := map[string]*oauth2.Config{}
	if cfg.OAuth.XClientID != "" {
		providers[ProviderX] = &oauth2.Config{
			ClientID:     cfg.OAuth.XClientID,
			ClientSecret: cfg.OAuth.XClientSecret,
			RedirectURL:  cfg.OAuth.XRedirectURL,
			Scopes:       []string{"users.read", "tweet.read"},
			Endpoint:     xEndpoint,
		}
		logger.Info("OAUTH", "Provider configured", map[string]interface{}{
			"provider":     ProviderX,
			"redirect_url": cfg.OAuth.XRedirectURL,
		})
	}

	return &oauthService{
		uowFactory:  uowFactory,
		states:      states,
		providers:   providers,
		userInfoURL: map[string]string{ProviderX: xUserInfoURL},
		jwtSecret:   cfg.App.JwtSecret,
		jwtTTL:      cfg.App.JwtTTL,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// GetLoginURL starts an authorization code flow with PKCE. The verifier
// stays server side, keyed by the state parameter.
func (s *oauthService) GetLoginURL(provider string) (string, error) {
	conf, ok := s.providers[provider]
	if !ok {
		return "", ErrUnsupportedProvider
	}

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	s.states.Save(state, &memory.OAuthState{
		Provider:     provider,
		CodeVerifier: verifier,
		CreatedAt:    s.now(),
	})

	return conf.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)), nil
}

// HandleCallback exchanges the code, upserts the user and returns a signed
// bearer token.
func (s *oauthService) HandleCallback(ctx context.Context, provider, code, state string) (string, error) {
	conf, ok := s.providers[provider]
	if !ok {
		return "", ErrUnsupportedProvider
	}
	pending, ok := s.states.Take(state)
	if !ok || pending.Provider != provider {
		return "", ErrInvalidState
	}
	if s.uowFactory == nil {
		return "", ErrIdentityUnavailable
	}

	token, err := conf.Exchange(ctx, code, oauth2.VerifierOption(pending.CodeVerifier))
	if err != nil {
		s.logger.Error("OAUTH", "Code exchange failed", map[string]interface{}{"provider": provider, "error": err.Error()})
		return "", fmt.Errorf("code exchange failed: %w", err)
	}

	profile, err := s.fetchProfile(ctx, provider, conf.Client(ctx, token))
	if err != nil {
		s.logger.Error("OAUTH", "Failed to fetch profile", map[string]interface{}{"provider": provider, "error": err.Error()})
		return "", err
	}

	user, created, err := s.upsertUser(ctx, provider, profile)
	if err != nil {
		return "", err
	}

	signed, err := s.issueToken(user)
	if err != nil {
		return "", err
	}

	s.publisher.PublishUserSignedIn(ctx, user.Id, provider, created)
	s.logger.Info("OAUTH", "User signed in", map[string]interface{}{"user_id": user.Id, "provider": provider, "created": created})
	return signed, nil
}

func (s *oauthService) GetSession(ctx context.Context, userId uuid.UUID) (*dto.SessionResponse, error) {
	if s.uowFactory == nil {
		return nil, ErrIdentityUnavailable
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status == entity.UserStatusBlocked {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "session not found")
	}

	res := &dto.SessionResponse{
		Id:     user.Id,
		Handle: user.Handle,
		Name:   user.FullName,
		Role:   string(user.Role),
	}
	if user.Email != nil {
		res.Email = *user.Email
	}
	if user.AvatarURL != nil {
		res.AvatarURL = *user.AvatarURL
	}
	return res, nil
}

func (s *oauthService) fetchProfile(ctx context.Context, provider string, client *http.Client) (*dto.ProviderProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL[provider], nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %w", err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading user info: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info: status %d: %s", resp.StatusCode, string(content))
	}

	var body struct {
		Data struct {
			ID              string `json:"id"`
			Name            string `json:"name"`
			Username        string `json:"username"`
			ProfileImageURL string `json:"profile_image_url"`
			Email           string `json:"email"`
		} `json:"data"`
	}
	if err := json.Unmarshal(content, &body); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}
	if body.Data.ID == "" {
		return nil, errors.New("user info has no id")
	}

	return &dto.ProviderProfile{
		ProviderUserId: body.Data.ID,
		Username:       body.Data.Username,
		Name:           body.Data.Name,
		Email:          body.Data.Email,
		AvatarURL:      body.Data.ProfileImageURL,
	}, nil
}

func (s *oauthService) upsertUser(ctx context.Context, provider string, p *dto.ProviderProfile) (*entity.User, bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}
	defer func() {
		_ = uow.Rollback()
	}()

	link, err := uow.UserRepository().FindUserProvider(ctx, specification.ByProvider{Name: provider, UserID: p.ProviderUserId})
	if err != nil {
		return nil, false, err
	}

	var user *entity.User
	if link != nil {
		user, err = uow.UserRepository().FindOne(ctx, specification.ByID{ID: link.UserId})
		if err != nil {
			return nil, false, err
		}
	}

	created := user == nil
	if created {
		id := uuid.New()
		user = &entity.User{
			Id:     id,
			Role:   entity.UserRoleUser,
			Status: entity.UserStatusActive,
		}
		applyProfile(user, p)
		if err := uow.UserRepository().Create(ctx, user); err != nil {
			return nil, false, err
		}
		link = &entity.UserProvider{
			Id:             uuid.New(),
			UserId:         user.Id,
			ProviderName:   provider,
			ProviderUserId: p.ProviderUserId,
		}
	} else {
		applyProfile(user, p)
		if err := uow.UserRepository().Update(ctx, user); err != nil {
			return nil, false, err
		}
	}

	link.AvatarURL = p.AvatarURL
	if err := uow.UserRepository().SaveUserProvider(ctx, link); err != nil {
		return nil, false, fmt.Errorf("failed to save provider info: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, false, err
	}
	return user, created, nil
}

// applyProfile copies provider data onto the user, filling display defaults
// for anything the provider left out.
func applyProfile(u *entity.User, p *dto.ProviderProfile) {
	u.Handle = DisplayHandle(p.Username, p.Email)
	u.FullName = p.Name
	if u.FullName == "" {
		u.FullName = DefaultDisplayName
	}
	if p.Email != "" {
		email := p.Email
		u.Email = &email
	}
	avatar := p.AvatarURL
	if avatar == "" {
		avatar = defaultAvatarURL + u.Id.String()
	}
	u.AvatarURL = &avatar
}

// DisplayHandle prefers the provider username and falls back to the local
// part of the email address.
func DisplayHandle(username, email string) string {
	if h := strings.TrimPrefix(strings.TrimSpace(username), "@"); h != "" {
		return h
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return "user"
}

func (s *oauthService) issueToken(user *entity.User) (string, error) {
	if s.jwtSecret == "" {
		return "", errors.New("JWT_SECRET is not configured")
	}
	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"role":    string(user.Role),
		"handle":  user.Handle,
		"exp":     s.now().Add(s.jwtTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
}
