// arena-roguelite-server hosts solo runs over SSH: every connection plays
// its own run against the shared progress database. Build:
//
//	go build -o arena-roguelite-server ./cmd/server
//
// Usage:
//
//	./arena-roguelite-server [--port 2222] [--key server_host_key]
//
// Connect with:
//
//	ssh -t -p 2222 localhost
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync"
	"unicode"

	"arena-roguelite/internal/config"
	"arena-roguelite/internal/play"
	internalssh "arena-roguelite/internal/ssh"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
	xssh "golang.org/x/crypto/ssh"
)

const maxNameRunes = 16

// allowedTerms is the TERM values accepted from clients. TERM ends up in
// the process environment for terminfo lookup, so arbitrary strings are
// refused.
var allowedTerms = map[string]bool{
	"xterm":                 true,
	"xterm-256color":        true,
	"screen":                true,
	"screen-256color":       true,
	"tmux":                  true,
	"tmux-256color":         true,
	"linux":                 true,
	"vt100":                 true,
	"rxvt-unicode-256color": true,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	flag.IntVar(&cfg.SSHPort, "port", cfg.SSHPort, "SSH server port")
	flag.StringVar(&cfg.HostKey, "key", cfg.HostKey, "Path to the PEM-encoded host key (auto-generated if absent)")
	flag.IntVar(&cfg.Chapter, "chapter", cfg.Chapter, "chapter offered to players")
	flag.StringVar(&cfg.Difficulty, "difficulty", cfg.Difficulty, "normal, hard or nightmare")
	flag.BoolVar(&cfg.Endless, "endless", cfg.Endless, "endless waves instead of a chapter")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger := cfg.Logger(os.Stderr)
	st, err := play.OpenStorage(cfg)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer st.Close()

	h := &host{cfg: cfg, storage: st, logger: logger}
	srv := &gossh.Server{
		Addr:    fmt.Sprintf(":%d", cfg.SSHPort),
		Handler: h.handleSession,
		// Accept PTY requests from any client.
		PtyCallback: func(_ gossh.Context, _ gossh.Pty) bool { return true },
		// No authentication: the name is only a label for logs.
		HostSigners: []gossh.Signer{loadOrCreateHostKey(cfg.HostKey)},
	}

	log.Printf("arena-roguelite SSH server listening on :%d", cfg.SSHPort)
	log.Printf("Connect with:  ssh -t -p %d -o StrictHostKeyChecking=no localhost", cfg.SSHPort)
	log.Fatal(srv.ListenAndServe())
}

// host runs one game per SSH session.
type host struct {
	cfg     config.Config
	storage *play.Storage
	logger  *slog.Logger
}

// handleSession is the gliderlabs SSH handler for one connection. It blocks
// for the duration of the run so the SSH session stays open.
func (h *host) handleSession(s gossh.Session) {
	pty, winCh, hasPTY := s.Pty()
	if !hasPTY {
		fmt.Fprintln(s, "This game requires a PTY. Connect with: ssh -t -p 2222 <host>")
		return
	}
	term := pty.Term
	for _, env := range s.Environ() {
		if v, ok := strings.CutPrefix(env, "TERM="); ok {
			term = v
			break
		}
	}
	if !allowedTerms[term] {
		term = "xterm-256color"
	}

	name := sanitizeName(s.User())
	logger := h.logger.With("player", name, "remote", s.RemoteAddr().String())

	// TERM must be set in the process environment before NewTerminfoScreenFromTty.
	tty := internalssh.NewSessionTty(s, pty, winCh)
	termMu.Lock()
	_ = os.Setenv("TERM", term)
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	termMu.Unlock()
	if err != nil {
		fmt.Fprintf(s, "Terminal setup failed: %v\n", err)
		return
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(s, "Screen init failed: %v\n", err)
		return
	}

	var ctx context.Context = s.Context()
	g, err := play.NewGame(ctx, h.cfg, h.storage, logger)
	if err != nil {
		screen.Fini()
		logger.Error("start run", "err", err)
		fmt.Fprintf(s, "Could not start a run: %v\n", err)
		return
	}
	res := play.New(screen, g, h.cfg.FrameRate, logger).Run(ctx)
	screen.Fini()
	logger.Info("session closed", "run", res.RunID, "victory", res.Victory, "rooms", res.RoomsCleared)
	fmt.Fprintf(s, "Thanks for playing, %s: %d rooms cleared, %d kills.\n", name, res.RoomsCleared, res.Kills)
}

// termMu protects os.Setenv("TERM") around screen creation.
var termMu sync.Mutex

// sanitizeName strips control characters from an SSH user name and caps it
// at maxNameRunes runes.
func sanitizeName(s string) string {
	var b strings.Builder
	n := 0
	for _, r := range s {
		if n == maxNameRunes {
			break
		}
		if unicode.IsControl(r) || !unicode.IsPrint(r) {
			continue
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

// loadOrCreateHostKey loads a PEM private key from path, or generates and
// persists a new ed25519 key if the file is absent or unreadable.
func loadOrCreateHostKey(path string) gossh.Signer {
	if data, err := os.ReadFile(path); err == nil {
		if signer, err := xssh.ParsePrivateKey(data); err == nil {
			log.Printf("Loaded host key from %s", path)
			return signer
		}
	}

	log.Printf("Generating new ed25519 host key → %s", path)
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		log.Fatalf("generate host key: %v", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		log.Fatalf("create signer: %v", err)
	}
	if pemBlock, err := xssh.MarshalPrivateKey(key, "arena-roguelite server"); err == nil {
		_ = os.WriteFile(path, pem.EncodeToMemory(pemBlock), 0600)
	}
	return signer
}
