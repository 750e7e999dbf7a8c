package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

// flags
var (
	nameFlag = &cli.StringFlag{
		Name:     "name",
		Usage:    "participant name",
		Required: true,
	}
	fuelFlag = &cli.UintFlag{
		Name:     "fuel",
		Usage:    "amount of fuel loaded on the rocket",
		Required: true,
	}
	payloadFlag = &cli.UintFlag{
		Name:     "payload",
		Usage:    "amount of payload loaded on the rocket",
		Required: true,
	}
	sessionIdFlag = &cli.StringFlag{
		Name:  "id",
		Usage: "id of a single executed session",
	}
)

// commands
var (
	infoCmd = &cli.Command{
		Name:   "info",
		Usage:  "Get info about the launch site",
		Action: infoAction,
	}
	participantCmd = &cli.Command{
		Name:  "participant",
		Usage: "Manage the participant identified by --actor",
		Subcommands: append(
			cli.Commands{},
			participantRegisterCmd,
			participantRenameCmd,
		),
	}
	participantRegisterCmd = &cli.Command{
		Name:   "register",
		Usage:  "Register as participant of the launch site",
		Action: participantRegisterAction,
		Flags:  []cli.Flag{nameFlag},
	}
	participantRenameCmd = &cli.Command{
		Name:   "rename",
		Usage:  "Change the participant name",
		Action: participantRenameAction,
		Flags:  []cli.Flag{nameFlag},
	}
	sessionCmd = &cli.Command{
		Name:  "session",
		Usage: "Manage launch sessions",
		Subcommands: append(
			cli.Commands{},
			sessionStartCmd,
			sessionJoinCmd,
			sessionExecuteCmd,
			sessionCurrentCmd,
			sessionHistoryCmd,
		),
	}
	sessionStartCmd = &cli.Command{
		Name:   "start",
		Usage:  "Open a new session, owner only",
		Action: sessionStartAction,
	}
	sessionJoinCmd = &cli.Command{
		Name:   "join",
		Usage:  "Register a strategy on the open session",
		Action: sessionJoinAction,
		Flags:  []cli.Flag{fuelFlag, payloadFlag},
	}
	sessionExecuteCmd = &cli.Command{
		Name:   "execute",
		Usage:  "Execute the open session",
		Action: sessionExecuteAction,
	}
	sessionCurrentCmd = &cli.Command{
		Name:   "current",
		Usage:  "Get info about the open session",
		Action: sessionCurrentAction,
	}
	sessionHistoryCmd = &cli.Command{
		Name:   "history",
		Usage:  "List the executed launches, or get one with --id",
		Action: sessionHistoryAction,
		Flags:  []cli.Flag{sessionIdFlag},
	}
	stateCmd = &cli.Command{
		Name:   "state",
		Usage:  "Export the launch site state",
		Action: stateAction,
	}
	metaHashCmd = &cli.Command{
		Name:   "metahash",
		Usage:  "Get the fingerprint of the running build",
		Action: metaHashAction,
	}
	auditCmd = &cli.Command{
		Name:   "audit",
		Usage:  "Check the launch site against its journal",
		Action: auditAction,
	}
)

func infoAction(ctx *cli.Context) error {
	return printGet(ctx, "/v1/info")
}

func participantRegisterAction(ctx *cli.Context) error {
	body := fmt.Sprintf(`{"name": %q}`, ctx.String(nameFlag.Name))
	return printSend(ctx, http.MethodPost, "/v1/participants", body)
}

func participantRenameAction(ctx *cli.Context) error {
	body := fmt.Sprintf(`{"name": %q}`, ctx.String(nameFlag.Name))
	return printSend(ctx, http.MethodPatch, "/v1/participants", body)
}

func sessionStartAction(ctx *cli.Context) error {
	return printSend(ctx, http.MethodPost, "/v1/sessions", "")
}

func sessionJoinAction(ctx *cli.Context) error {
	body := fmt.Sprintf(
		`{"fuelAmount": %d, "payloadAmount": %d}`,
		ctx.Uint(fuelFlag.Name), ctx.Uint(payloadFlag.Name),
	)
	return printSend(ctx, http.MethodPost, "/v1/sessions/registrations", body)
}

func sessionExecuteAction(ctx *cli.Context) error {
	return printSend(ctx, http.MethodPost, "/v1/sessions/execute", "")
}

func sessionCurrentAction(ctx *cli.Context) error {
	return printGet(ctx, "/v1/sessions/current")
}

func sessionHistoryAction(ctx *cli.Context) error {
	return printGet(ctx, historyPath(ctx.String(sessionIdFlag.Name)))
}

func historyPath(sessionId string) string {
	if sessionId == "" {
		return "/v1/sessions/history"
	}
	return "/v1/sessions/history/" + url.PathEscape(sessionId)
}

func stateAction(ctx *cli.Context) error {
	return printGet(ctx, "/v1/state")
}

func metaHashAction(ctx *cli.Context) error {
	return printGet(ctx, "/v1/metahash")
}

func auditAction(ctx *cli.Context) error {
	return printGet(ctx, "/v1/audit")
}

func printGet(ctx *cli.Context, path string) error {
	res, err := do[json.RawMessage](
		http.MethodGet, baseUrl(ctx)+path, "", "",
	)
	if err != nil {
		return err
	}
	return printJSON(res)
}

func printSend(ctx *cli.Context, method, path, body string) error {
	actor := ctx.String(actorFlag.Name)
	if len(actor) <= 0 {
		return fmt.Errorf("missing --%s", actorFlag.Name)
	}
	res, err := do[json.RawMessage](method, baseUrl(ctx)+path, body, actor)
	if err != nil {
		return err
	}
	return printJSON(res)
}

func baseUrl(ctx *cli.Context) string {
	return strings.TrimSuffix(ctx.String(urlFlag.Name), "/")
}

func do[T any](method, url, body, actor string) (result T, err error) {
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Add("Content-Type", "application/json")
	if len(actor) > 0 {
		req.Header.Add("X-Actor-Id", actor)
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}
	resp, err := client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errRes := struct {
			Error string `json:"error"`
		}{}
		if json.Unmarshal(buf, &errRes) == nil && errRes.Error != "" {
			err = fmt.Errorf("%s (%d)", errRes.Error, resp.StatusCode)
			return
		}
		err = fmt.Errorf("failed to %s %s: %s", strings.ToLower(method), url, string(buf))
		return
	}

	err = json.Unmarshal(buf, &result)
	return
}

func printJSON(raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	fmt.Println(buf.String())
	return nil
}
