package store

import (
	"context"
	"path/filepath"
	"testing"

	"homai-zigbee/internal/nodecache"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gateway.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := db.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	return db
}

func TestBootstrapCreatesDefaultProfileAndConfig(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	cfg, err := db.ActiveConfig(ctx)
	if err != nil {
		t.Fatalf("ActiveConfig: %v", err)
	}
	if cfg.Profile.Name != "default" || !cfg.Profile.IsActive {
		t.Fatalf("profile = %+v, want active default", cfg.Profile)
	}
	if cfg.Gateway == nil || cfg.Gateway.APIAddress() != "0.0.0.0:8080" {
		t.Fatalf("gateway config = %+v, want default listen address", cfg.Gateway)
	}

	needs, err := db.NeedsBootstrap(ctx)
	if err != nil {
		t.Fatalf("NeedsBootstrap: %v", err)
	}
	if needs {
		t.Fatal("expected bootstrap to be a no-op on a populated database")
	}
}

func TestGatewayConfigUpdateRoundTrips(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	profile, err := db.Profiles().GetActive(ctx)
	if err != nil {
		t.Fatalf("GetActive: %v", err)
	}

	gw, err := db.GatewayConfigs().Get(ctx, profile.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	gw.SerialPort = "/dev/ttyUSB0"
	gw.SchemaIndex = "/etc/homai-zigbee/zcl"
	gw.PANID = 0x1234
	gw.ExtPANID = 0x00124b0001abcdef
	gw.Channel = 15

	if err := db.GatewayConfigs().Update(ctx, gw); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := db.GatewayConfigs().Get(ctx, profile.ID)
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if got.SerialPort != "/dev/ttyUSB0" || got.Channel != 15 || got.PANID != 0x1234 {
		t.Fatalf("gateway config after update = %+v", got)
	}
}

func TestNodeCacheBlobRoundTrips(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	profile, err := db.Profiles().GetActive(ctx)
	if err != nil {
		t.Fatalf("GetActive: %v", err)
	}

	if _, err := db.LoadNodeCache(ctx, profile.ID); err != ErrNodeCacheNotFound {
		t.Fatalf("LoadNodeCache before save: err = %v, want ErrNodeCacheNotFound", err)
	}

	snapshots := []nodecache.Snapshot{
		{Ext: 0x00124b0001abcdef, Nwk: 0x1234, HasNwk: true, Zombie: false},
		{Ext: 0x00124b0009fedcba, Zombie: true},
	}
	if err := db.SaveNodeCache(ctx, profile.ID, snapshots); err != nil {
		t.Fatalf("SaveNodeCache: %v", err)
	}

	got, err := db.LoadNodeCache(ctx, profile.ID)
	if err != nil {
		t.Fatalf("LoadNodeCache: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d snapshots, want 2", len(got))
	}

	byExt := map[uint64]nodecache.Snapshot{}
	for _, s := range got {
		byExt[s.Ext] = s
	}
	if s, ok := byExt[0x00124b0001abcdef]; !ok || !s.HasNwk || s.Nwk != 0x1234 {
		t.Fatalf("snapshot for first node = %+v", s)
	}
	if s, ok := byExt[0x00124b0009fedcba]; !ok || !s.Zombie {
		t.Fatalf("snapshot for second node = %+v", s)
	}

	// Re-saving replaces rather than appends.
	if err := db.SaveNodeCache(ctx, profile.ID, snapshots[:1]); err != nil {
		t.Fatalf("SaveNodeCache (replace): %v", err)
	}
	got, err = db.LoadNodeCache(ctx, profile.ID)
	if err != nil {
		t.Fatalf("LoadNodeCache (replace): %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("loaded %d snapshots after replace, want 1", len(got))
	}
}
