package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrGatewayConfigNotFound = errors.New("gateway config not found")

// GatewayConfig is the per-profile persisted configuration: the REST
// listen address, the serial port to the radio coprocessor, the schema
// database index path, and the network identifiers the controller joins
// with -- spec.md's "no persistence format beyond an opaque blob" applies
// only to the node cache; these scalar fields are ordinary columns.
type GatewayConfig struct {
	ID          int64
	ProfileID   int64
	APIHost     string
	APIPort     int
	SerialPort  string
	SchemaIndex string
	PANID       uint16
	ExtPANID    uint64
	Channel     uint8
	CreatedAt   time.Time
}

// APIAddress returns the REST surface's listen address (host:port).
func (c *GatewayConfig) APIAddress() string {
	return fmt.Sprintf("%s:%d", c.APIHost, c.APIPort)
}

// GatewayConfigStore provides gateway config CRUD operations.
type GatewayConfigStore interface {
	Get(ctx context.Context, profileID int64) (*GatewayConfig, error)
	Create(ctx context.Context, c *GatewayConfig) error
	Update(ctx context.Context, c *GatewayConfig) error
	Delete(ctx context.Context, profileID int64) error
}

// GatewayConfigs returns a GatewayConfigStore for this database.
func (db *DB) GatewayConfigs() GatewayConfigStore { return &gatewayConfigStore{db: db} }

type gatewayConfigStore struct{ db *DB }

func (s *gatewayConfigStore) Get(ctx context.Context, profileID int64) (*GatewayConfig, error) {
	c := &GatewayConfig{}
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, profile_id, api_host, api_port, serial_port, schema_index, pan_id, ext_pan_id, channel, created_at
		FROM gateway_config WHERE profile_id = ?
	`, profileID).Scan(&c.ID, &c.ProfileID, &c.APIHost, &c.APIPort, &c.SerialPort, &c.SchemaIndex,
		&c.PANID, &c.ExtPANID, &c.Channel, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGatewayConfigNotFound
	}
	if err != nil {
		return nil, err
	}
	c.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	return c, nil
}

func (s *gatewayConfigStore) Create(ctx context.Context, c *GatewayConfig) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO gateway_config (profile_id, api_host, api_port, serial_port, schema_index, pan_id, ext_pan_id, channel)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ProfileID, c.APIHost, c.APIPort, c.SerialPort, c.SchemaIndex, c.PANID, c.ExtPANID, c.Channel)
	if err != nil {
		return fmt.Errorf("failed to create gateway config: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (s *gatewayConfigStore) Update(ctx context.Context, c *GatewayConfig) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE gateway_config
		SET api_host = ?, api_port = ?, serial_port = ?, schema_index = ?, pan_id = ?, ext_pan_id = ?, channel = ?
		WHERE profile_id = ?
	`, c.APIHost, c.APIPort, c.SerialPort, c.SchemaIndex, c.PANID, c.ExtPANID, c.Channel, c.ProfileID)
	return err
}

func (s *gatewayConfigStore) Delete(ctx context.Context, profileID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM gateway_config WHERE profile_id = ?`, profileID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrGatewayConfigNotFound
	}
	return nil
}

var ErrNoActiveProfile = errors.New("no active profile found")

// Config bundles the active profile and its gateway config -- the
// daemon's one call on startup to learn everything it needs to boot.
type Config struct {
	Profile *Profile
	Gateway *GatewayConfig
}

// Timezone returns the profile timezone, defaulting to UTC.
func (c *Config) Timezone() string {
	if c.Profile == nil {
		return "UTC"
	}
	return c.Profile.Timezone
}

// ActiveConfig loads the complete configuration for the active profile.
func (db *DB) ActiveConfig(ctx context.Context) (*Config, error) {
	profile, err := db.Profiles().GetActive(ctx)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrNoActiveProfile
		}
		return nil, fmt.Errorf("failed to get active profile: %w", err)
	}

	cfg := &Config{Profile: profile}
	gw, err := db.GatewayConfigs().Get(ctx, profile.ID)
	if err != nil && !errors.Is(err, ErrGatewayConfigNotFound) {
		return nil, fmt.Errorf("failed to get gateway config: %w", err)
	}
	cfg.Gateway = gw
	return cfg, nil
}
