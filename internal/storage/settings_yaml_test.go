package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"randomizer/internal/core/model"
	"randomizer/internal/ui/inspector"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    inspector.Settings
		wantErr error
	}{
		{
			name:  "empty document keeps defaults",
			input: "",
			want:  inspector.DefaultSettings(),
		},
		{
			name: "random mode",
			input: `
init_delay_seconds: 0.5
interval_mode: random
min_interval_seconds: 1
max_interval_seconds: 3
redis_addr: localhost:6379
redis_channel: lights
`,
			want: inspector.Settings{
				InitDelay:    0.5,
				Mode:         model.IntervalRandom,
				Interval:     2,
				MinInterval:  1,
				MaxInterval:  3,
				RedisAddr:    "localhost:6379",
				RedisChannel: "lights",
			},
		},
		{
			name:  "mode is case insensitive",
			input: "interval_mode: Fixed\ninterval_seconds: 4\n",
			want: inspector.Settings{
				Mode:         model.IntervalFixed,
				Interval:     4,
				MinInterval:  1,
				MaxInterval:  3,
				RedisChannel: "randomizer",
			},
		},
		{
			name:    "unknown mode",
			input:   "interval_mode: burst\n",
			wantErr: model.ErrInvalidConfiguration,
		},
		{
			name:    "inverted random bounds",
			input:   "interval_mode: random\nmin_interval_seconds: 5\nmax_interval_seconds: 1\n",
			wantErr: model.ErrInvalidConfiguration,
		},
		{
			name:    "interval beyond duration range",
			input:   "interval_seconds: 1e10\n",
			wantErr: model.ErrInvalidConfiguration,
		},
		{
			name:    "huge max interval in random mode",
			input:   "interval_mode: random\nmax_interval_seconds: 1e300\n",
			wantErr: model.ErrInvalidConfiguration,
		},
		{
			name:    "not a number",
			input:   "init_delay_seconds: .nan\n",
			wantErr: model.ErrInvalidConfiguration,
		},
		{
			name:    "negative delay",
			input:   "init_delay_seconds: -1\n",
			wantErr: model.ErrInvalidConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Decode() error = %v, want %v", err, tt.wantErr)
				}
				if got != inspector.DefaultSettings() {
					t.Errorf("Decode() on error = %+v, want defaults", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Decode([]byte("interval_seconds: [1, 2")); err == nil {
		t.Fatal("Decode() accepted malformed yaml")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "randomizer.yaml")
	if err := os.WriteFile(path, []byte("interval_mode: random\nmin_interval_seconds: 2\nmax_interval_seconds: 2\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	settings, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if settings.Mode != model.IntervalRandom || settings.MinInterval != 2 || settings.MaxInterval != 2 {
		t.Errorf("LoadFile() = %+v", settings)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadFile(missing) error = %v, want ErrNotExist", err)
	}
}

func TestStoreMemoryOnly(t *testing.T) {
	store := NewStore(nil)

	settings, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if settings != inspector.DefaultSettings() {
		t.Errorf("Load() = %+v, want defaults", settings)
	}

	settings.Interval = 7
	if err := store.Save(settings); err != nil {
		t.Errorf("Save() in memory-only mode error: %v", err)
	}
}

func TestStoreSaveLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	store, err := Open("randomizer_test_store")
	if err != nil {
		t.Skipf("data dir unavailable: %v", err)
	}

	settings, err := store.Load()
	if err != nil {
		t.Fatalf("initial Load() error: %v", err)
	}
	if settings != inspector.DefaultSettings() {
		t.Errorf("initial Load() = %+v, want defaults", settings)
	}

	want := inspector.Settings{
		InitDelay:    1,
		Mode:         model.IntervalRandom,
		Interval:     2,
		MinInterval:  0.5,
		MaxInterval:  4,
		RedisAddr:    "127.0.0.1:6379",
		RedisChannel: "toggles",
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	reopened, err := Open("randomizer_test_store")
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	got, err := reopened.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}
