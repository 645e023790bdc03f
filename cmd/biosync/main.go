/*
 * Copyright 2025 Vantix Systems.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/vantix/biosync/pkg/cache"
	"github.com/vantix/biosync/pkg/config"
	"github.com/vantix/biosync/pkg/hrstore"
	"github.com/vantix/biosync/pkg/logger"
	"github.com/vantix/biosync/pkg/models"
	syncsvc "github.com/vantix/biosync/pkg/sync"
	"github.com/vantix/biosync/pkg/terminal"
	"github.com/vantix/biosync/pkg/terminal/zk"
)

var errUnknownMode = errors.New("unknown mode")

func main() {
	configPath := flag.String("config", "/etc/biosync/biosync.json", "Path to config file")
	mode := flag.String("mode", "push", "Operation: push, pull, allocate, users, wipe, check")
	terminalID := flag.String("terminal", "", "Restrict the operation to one terminal_id")
	confirm := flag.Bool("confirm", false, "Acknowledge a destructive operation")
	flag.Parse()

	var cfg syncsvc.Config

	if err := config.LoadAndValidate(*configPath, &cfg); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &application{
		cfg:   &cfg,
		log:   zlog,
		hr:    hrstore.NewClient(cfg.HRStore, nil, zlog),
		store: cache.NewStore(cfg.CachePath, zlog),
	}

	app.engine = syncsvc.New(app.hr, app.openSession, syncsvc.NewInMemoryMetrics(), zlog)

	if err := app.run(ctx, *mode, *terminalID, *confirm); err != nil {
		zlog.Fatal().Err(err).Str("mode", *mode).Msg("biosync failed")
	}
}

type application struct {
	cfg    *syncsvc.Config
	log    logger.Logger
	hr     *hrstore.Client
	store  *cache.Store
	engine *syncsvc.Engine
}

func (a *application) run(ctx context.Context, mode, terminalID string, confirm bool) error {
	switch mode {
	case "push":
		return a.push(ctx, terminalID)
	case "pull":
		return a.pull(ctx, terminalID)
	case "allocate":
		return a.allocate(ctx)
	case "users":
		return a.users(ctx, terminalID)
	case "wipe":
		return a.wipe(ctx, terminalID, confirm)
	case "check":
		return a.check(ctx)
	default:
		return fmt.Errorf("%w: %s", errUnknownMode, mode)
	}
}

// openSession satisfies sync.SessionOpener with the vendor protocol dialer.
func (a *application) openSession(ctx context.Context, cfg *models.TerminalConfig) (syncsvc.TerminalSession, error) {
	return terminal.Open(ctx, cfg, zk.Dial, a.log)
}

// push allocates missing device IDs, then syncs every identity's cached
// finger slots to the target terminals.
func (a *application) push(ctx context.Context, terminalID string) error {
	identities, err := a.hr.ListIdentities(ctx)
	if err != nil {
		return err
	}

	records, err := a.store.Load()
	if err != nil {
		return err
	}

	identities, _ = a.engine.AllocateMissingIDs(ctx, identities, records)

	pending := make([]syncsvc.PushRecord, 0, len(identities))

	for _, identity := range identities {
		if !identity.HasDeviceID() {
			continue
		}

		pending = append(pending, syncsvc.PushRecord{
			Identity: identity,
			Slots:    records[identity.IdentityKey].FingerSlots,
		})
	}

	terminals, err := a.targetTerminals(ctx, terminalID)
	if err != nil {
		return err
	}

	results := a.engine.PushToAllTerminals(ctx, terminals, pending)

	failed := 0

	for id, result := range results {
		fmt.Printf("%s: %d/%d succeeded\n", id, result.Succeeded, result.Attempted)

		for key, kind := range result.PerIdentityErrors {
			fmt.Printf("  %s: %s\n", key, kind)
		}

		if result.Failed() {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("push completed with failures on %d of %d terminals", failed, len(results))
	}

	return nil
}

// pull reads enrolled templates off the target terminals and merges them
// into the local cache snapshot.
func (a *application) pull(ctx context.Context, terminalID string) error {
	identities, err := a.hr.ListIdentities(ctx)
	if err != nil {
		return err
	}

	records, err := a.store.Load()
	if err != nil {
		return err
	}

	terminals, err := a.targetTerminals(ctx, terminalID)
	if err != nil {
		return err
	}

	for i := range terminals {
		cfg := &terminals[i]

		if !cfg.Enabled {
			continue
		}

		pulled, err := a.engine.PullFromTerminal(ctx, cfg, identities)
		if err != nil {
			a.log.Error().Err(err).
				Str("terminal_id", cfg.TerminalID).
				Msg("Pull failed; continuing with remaining terminals")

			continue
		}

		records = a.engine.MergeIntoCache(pulled, identities, records)
	}

	return a.store.Save(records)
}

// allocate assigns device IDs to identities that lack one, without
// touching any terminal.
func (a *application) allocate(ctx context.Context) error {
	identities, err := a.hr.ListIdentities(ctx)
	if err != nil {
		return err
	}

	records, err := a.store.Load()
	if err != nil {
		return err
	}

	_, assignments := a.engine.AllocateMissingIDs(ctx, identities, records)

	for _, assignment := range assignments {
		status := "ok"
		if !assignment.WrittenBack {
			status = "write-back failed: " + assignment.Error
		}

		fmt.Printf("%s -> %d (%s)\n", assignment.IdentityKey, assignment.DeviceID, status)
	}

	fmt.Printf("%d identities assigned\n", len(assignments))

	return nil
}

// users lists the user table of one terminal.
func (a *application) users(ctx context.Context, terminalID string) error {
	cfg, err := a.singleTerminal(ctx, terminalID)
	if err != nil {
		return err
	}

	sess, err := terminal.Open(ctx, cfg, zk.Dial, a.log)
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	users, err := sess.ReadUserList(ctx)
	if err != nil {
		return err
	}

	for _, u := range users {
		fmt.Printf("%6d  %-24s  %s\n", u.DeviceID, u.DisplayName, u.Privilege)
	}

	fmt.Printf("%d users on %s\n", len(users), cfg.DisplayLabel())

	return nil
}

// wipe erases all users and templates on one terminal.
func (a *application) wipe(ctx context.Context, terminalID string, confirm bool) error {
	if !confirm {
		return errors.New("wipe is destructive; re-run with -confirm")
	}

	cfg, err := a.singleTerminal(ctx, terminalID)
	if err != nil {
		return err
	}

	sess, err := terminal.Open(ctx, cfg, zk.Dial, a.log)
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	if err := sess.WipeAll(ctx); err != nil {
		return err
	}

	fmt.Printf("wiped %s\n", cfg.DisplayLabel())

	return nil
}

// check verifies the HR store connection and probes every terminal.
func (a *application) check(ctx context.Context) error {
	if err := a.hr.TestConnection(ctx); err != nil {
		return fmt.Errorf("HR store check failed: %w", err)
	}

	fmt.Println("HR store: ok")

	terminals, err := a.targetTerminals(ctx, "")
	if err != nil {
		return err
	}

	unreachable := 0

	for i := range terminals {
		cfg := &terminals[i]

		if err := terminal.Probe(cfg.Addr(), cfg.Timeout.OrDefault(0)); err != nil {
			fmt.Printf("%s (%s): unreachable\n", cfg.DisplayLabel(), cfg.Addr())

			unreachable++

			continue
		}

		fmt.Printf("%s (%s): ok\n", cfg.DisplayLabel(), cfg.Addr())
	}

	if unreachable > 0 {
		return fmt.Errorf("%d of %d terminals unreachable", unreachable, len(terminals))
	}

	return nil
}

// targetTerminals resolves the terminal set: the config's inline list when
// present, the HR store inventory otherwise, optionally narrowed to one ID.
func (a *application) targetTerminals(ctx context.Context, terminalID string) ([]models.TerminalConfig, error) {
	terminals := a.cfg.Terminals

	if len(terminals) == 0 {
		fetched, err := a.hr.ListTerminals(ctx)
		if err != nil {
			return nil, fmt.Errorf("no terminals configured and inventory fetch failed: %w", err)
		}

		terminals = fetched
	}

	if terminalID == "" {
		return terminals, nil
	}

	for i := range terminals {
		if terminals[i].TerminalID == terminalID {
			return terminals[i : i+1], nil
		}
	}

	return nil, fmt.Errorf("terminal %q not found", terminalID)
}

func (a *application) singleTerminal(ctx context.Context, terminalID string) (*models.TerminalConfig, error) {
	if terminalID == "" {
		return nil, errors.New("this mode requires -terminal")
	}

	terminals, err := a.targetTerminals(ctx, terminalID)
	if err != nil {
		return nil, err
	}

	return &terminals[0], nil
}
