package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
)

// Player plays a decoded buffer. Implementations wrap whatever playback
// facility the platform provides.
type Player interface {
	// Play starts playback and returns without waiting for it to finish.
	// onDone is invoked once when playback ends or is stopped.
	Play(ctx context.Context, buf *Buffer, onDone func()) error

	// Stop halts any in-flight playback.
	Stop()
}

// ExecPlayer plays audio through an external command-line player. The decoded
// buffer is written to a temporary WAV file and handed to the first player
// binary found for the current platform.
type ExecPlayer struct {
	mu      sync.Mutex
	cmd     *exec.Cmd
	tmpFile string
}

// NewExecPlayer creates a new command-line backed player.
func NewExecPlayer() *ExecPlayer {
	return &ExecPlayer{}
}

// Play writes the buffer to a temp WAV file and starts the platform player.
func (p *ExecPlayer) Play(ctx context.Context, buf *Buffer, onDone func()) error {
	data, err := EncodeWAV(buf)
	if err != nil {
		return err
	}

	name, args, err := playerCommand()
	if err != nil {
		return err
	}

	tmp := filepath.Join(os.TempDir(), fmt.Sprintf("unsalted-%d.wav", os.Getpid()))
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write playback file: %w", err)
	}

	cmd := exec.CommandContext(ctx, name, append(args, tmp)...)
	if err := cmd.Start(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to start audio player %s: %w", name, err)
	}

	p.mu.Lock()
	p.stopLocked()
	p.cmd = cmd
	p.tmpFile = tmp
	p.mu.Unlock()

	go func() {
		cmd.Wait()
		p.mu.Lock()
		if p.cmd == cmd {
			p.cmd = nil
			os.Remove(p.tmpFile)
			p.tmpFile = ""
		}
		p.mu.Unlock()
		if onDone != nil {
			onDone()
		}
	}()

	return nil
}

// Stop kills the player process if one is running.
func (p *ExecPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *ExecPlayer) stopLocked() {
	if p.cmd != nil && p.cmd.Process != nil {
		p.cmd.Process.Kill()
		p.cmd = nil
	}
}

// playerCommand picks an audio player binary for the current platform.
func playerCommand() (string, []string, error) {
	switch runtime.GOOS {
	case "darwin":
		return "afplay", nil, nil
	case "windows":
		return "powershell", []string{"-c", "(New-Object Media.SoundPlayer $args[0]).PlaySync()"}, nil
	default:
		for _, candidate := range []string{"paplay", "aplay", "ffplay"} {
			if _, err := exec.LookPath(candidate); err == nil {
				if candidate == "ffplay" {
					return candidate, []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}, nil
				}
				return candidate, nil, nil
			}
		}
		return "", nil, fmt.Errorf("no audio player found (tried paplay, aplay, ffplay)")
	}
}
