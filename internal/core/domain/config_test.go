package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/vgren/internal/core/domain"
)

func TestConfig_CompileOptions(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		name string
		cfg  func(*domain.Config)
		want domain.CompileOptions
	}{
		{
			name: "serve defaults",
			cfg:  func(*domain.Config) {},
			want: domain.CompileOptions{PathToGren: "gren", Output: ".js", Debug: true, Cwd: "/proj"},
		},
		{
			name: "build defaults",
			cfg:  func(c *domain.Config) { c.Mode = domain.ModeBuild },
			want: domain.CompileOptions{PathToGren: "gren", Output: ".js", Optimize: true, Verbose: true, Cwd: "/proj"},
		},
		{
			name: "debug build is not optimized",
			cfg: func(c *domain.Config) {
				c.Mode = domain.ModeBuild
				c.Debug = &yes
			},
			want: domain.CompileOptions{PathToGren: "gren", Output: ".js", Debug: true, Verbose: true, Cwd: "/proj"},
		},
		{
			name: "explicit settings win",
			cfg: func(c *domain.Config) {
				c.Debug = &no
				c.Optimize = &yes
				c.Compiler = domain.CompilerConfig{
					PathToGren: "/opt/gren",
					Cwd:        "/elsewhere",
					Verbose:    &yes,
					Output:     ".html",
					Report:     "json",
					Env:        map[string]string{"GREN_HOME": "/cache"},
				}
			},
			want: domain.CompileOptions{
				PathToGren: "/opt/gren",
				Output:     ".html",
				Optimize:   true,
				Cwd:        "/elsewhere",
				Verbose:    true,
				Report:     "json",
				Env:        map[string]string{"GREN_HOME": "/cache"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.DefaultConfig("/root")
			tt.cfg(cfg)

			assert.Equal(t, tt.want, cfg.CompileOptions("/proj"))
		})
	}
}

func TestDefaultSocketPath(t *testing.T) {
	assert.Equal(t, "/proj/.vgren/daemon.sock", domain.DefaultSocketPath("/proj"))
}
