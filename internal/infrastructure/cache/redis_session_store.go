package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/efatura-api/internal/domain/entity"
	"github.com/jhoicas/efatura-api/internal/domain/repository"
	"github.com/jhoicas/efatura-api/pkg/config"
)

const defaultSessionKeyPrefix = "efatura:session:"

// RedisSessionStore sesiones compartidas entre réplicas. El TTL de la clave es el tiempo
// que le queda a la sesión, así Redis las descarta solo.
type RedisSessionStore struct {
	client    *redis.Client
	keyPrefix string
	now       func() time.Time
}

type storedSession struct {
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewRedisSessionStore conecta y verifica con PING.
func NewRedisSessionStore(cfg config.RedisConfig) (*RedisSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: conectar a %s: %w", cfg.Addr(), err)
	}
	return NewRedisSessionStoreWithClient(client, ""), nil
}

// NewRedisSessionStoreWithClient reutiliza un cliente existente (tests, cliente compartido).
func NewRedisSessionStoreWithClient(client *redis.Client, keyPrefix string) *RedisSessionStore {
	if keyPrefix == "" {
		keyPrefix = defaultSessionKeyPrefix
	}
	return &RedisSessionStore{client: client, keyPrefix: keyPrefix, now: time.Now}
}

func (s *RedisSessionStore) key(tenantID string, category entity.Category) string {
	return s.keyPrefix + tenantID + ":" + string(category)
}

func (s *RedisSessionStore) Get(ctx context.Context, tenantID string, category entity.Category) (*entity.Session, error) {
	raw, err := s.client.Get(ctx, s.key(tenantID, category)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: leer sesión: %w", err)
	}
	var st storedSession
	if err := json.Unmarshal(raw, &st); err != nil {
		// Valor ilegible: se trata como ausente y se fuerza un login nuevo.
		_ = s.client.Del(ctx, s.key(tenantID, category)).Err()
		return nil, nil
	}
	return &entity.Session{
		TenantID:  tenantID,
		Category:  category,
		Token:     st.Token,
		IssuedAt:  st.IssuedAt,
		ExpiresAt: st.ExpiresAt,
	}, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, sess *entity.Session) error {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return s.Delete(ctx, sess.TenantID, sess.Category)
	}
	raw, err := json.Marshal(storedSession{Token: sess.Token, IssuedAt: sess.IssuedAt, ExpiresAt: sess.ExpiresAt})
	if err != nil {
		return fmt.Errorf("redis: serializar sesión: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sess.TenantID, sess.Category), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis: guardar sesión: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, tenantID string, category entity.Category) error {
	if err := s.client.Del(ctx, s.key(tenantID, category)).Err(); err != nil {
		return fmt.Errorf("redis: borrar sesión: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}

var _ repository.SessionStore = (*RedisSessionStore)(nil)
