package router

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/sessionkeeper/internal/api/grpc/authapi"
	grpcctx "github.com/dtroode/sessionkeeper/internal/api/grpc/context"
	"github.com/dtroode/sessionkeeper/internal/mocks"
	"github.com/dtroode/sessionkeeper/internal/model"
	"github.com/dtroode/sessionkeeper/internal/password"
	"github.com/dtroode/sessionkeeper/internal/repository/memory"
	"github.com/dtroode/sessionkeeper/internal/service"
	"github.com/dtroode/sessionkeeper/internal/testutil"
	"github.com/dtroode/sessionkeeper/internal/token"
)

func TestRouter_Register(t *testing.T) {
	t.Parallel()

	ctxMgr := mocks.NewContextManager(t)
	lg := testutil.MakeNoopLogger()

	r := New(mocks.NewSessionService(t), mocks.NewTokenService(t), ctxMgr, lg)
	s := r.Register()
	require.NotNil(t, s)

	info := s.GetServiceInfo()
	assert.Contains(t, info, authapi.ServiceName)
	assert.Len(t, info[authapi.ServiceName].Methods, 6)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestClient(t *testing.T) (authapi.AuthClient, *clock) {
	t.Helper()

	lg := testutil.MakeNoopLogger()
	clk := &clock{now: time.Now()}
	codec := token.NewJWT("router-test-secret", token.WithClock(clk.Now))
	users := memory.NewUserRepository(password.NewHasher(bcrypt.MinCost))
	lifecycle := service.NewLifecycle[model.User](service.LifecycleConfig{
		Persist:    true,
		SessionTTL: time.Hour,
		RefreshTTL: 24 * time.Hour,
	}, codec, memory.NewTokenRepository(), users, lg, service.WithLifecycleClock(clk.Now))

	sessions, err := service.NewSessionController[model.User](service.SessionConfig{
		Username:  true,
		LoginWith: "email|username",
	}, lifecycle, users, lg)
	require.NoError(t, err)

	lis := bufconn.Listen(1024 * 1024)
	s := New(sessions, sessions, grpcctx.NewManager(), lg).Register()
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return authapi.NewAuthClient(conn), clk
}

func mustStruct(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func TestRouter_SessionFlow(t *testing.T) {
	t.Parallel()

	client, clk := newTestClient(t)
	ctx := context.Background()

	_, err := client.Register(ctx, mustStruct(t, map[string]any{
		"email":    "alice@example.com",
		"username": "alice",
		"password": "wonderland",
	}))
	require.NoError(t, err)

	_, err = client.Register(ctx, mustStruct(t, map[string]any{
		"email":    "alice@example.com",
		"username": "other",
		"password": "wonderland",
	}))
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = client.Login(ctx, mustStruct(t, map[string]any{"identifier": "alice", "password": "wrong"}))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	login, err := client.Login(ctx, mustStruct(t, map[string]any{"identifier": "alice", "password": "wonderland"}))
	require.NoError(t, err)
	sessionToken := login.GetFields()["token"].GetStringValue()
	refreshToken := login.GetFields()["refreshToken"].GetStringValue()
	require.NotEmpty(t, sessionToken)
	require.NotEmpty(t, refreshToken)

	_, err = client.CurrentUser(ctx, &structpb.Struct{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	me, err := client.CurrentUser(grpcctx.WithBearerToken(ctx, sessionToken), &structpb.Struct{})
	require.NoError(t, err)
	assert.Equal(t, "alice", me.GetFields()["username"].GetStringValue())

	validated, err := client.Validate(grpcctx.WithBearerToken(ctx, sessionToken), &structpb.Struct{})
	require.NoError(t, err)
	assert.Equal(t, sessionToken, validated.GetFields()["token"].GetStringValue())

	clk.Advance(2 * time.Hour)

	_, err = client.Validate(grpcctx.WithBearerToken(ctx, sessionToken), &structpb.Struct{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	rotated, err := client.Refresh(grpcctx.WithBearerToken(ctx, sessionToken), mustStruct(t, map[string]any{"refreshToken": refreshToken}))
	require.NoError(t, err)
	newSession := rotated.GetFields()["token"].GetStringValue()
	newRefresh := rotated.GetFields()["refreshToken"].GetStringValue()
	assert.NotEqual(t, sessionToken, newSession)
	assert.NotEqual(t, refreshToken, newRefresh)

	_, err = client.Refresh(grpcctx.WithBearerToken(ctx, sessionToken), mustStruct(t, map[string]any{"refreshToken": refreshToken}))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = client.Logout(grpcctx.WithBearerToken(ctx, newSession), mustStruct(t, map[string]any{"refreshToken": newRefresh}))
	require.NoError(t, err)

	_, err = client.CurrentUser(grpcctx.WithBearerToken(ctx, newSession), &structpb.Struct{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = client.Refresh(grpcctx.WithBearerToken(ctx, newSession), mustStruct(t, map[string]any{"refreshToken": newRefresh}))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}
