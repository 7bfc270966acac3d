package httpclient

import (
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "default config is valid",
			cfg:     DefaultConfig(),
			wantErr: false,
		},
		{
			name: "zero timeout",
			cfg: Config{
				Timeout:   0,
				UserAgent: "x/1.0",
			},
			wantErr: true,
		},
		{
			name: "negative timeout",
			cfg: Config{
				Timeout:   -time.Second,
				UserAgent: "x/1.0",
			},
			wantErr: true,
		},
		{
			name: "empty user agent",
			cfg: Config{
				Timeout: 30 * time.Second,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
