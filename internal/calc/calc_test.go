package calc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ldamasio/cline"
	"github.com/ldamasio/cline/internal/broadcast"
)

type fakePublisher struct {
	events []broadcast.Event
	err    error
	closed bool
}

func (f *fakePublisher) Publish(_ context.Context, event broadcast.Event) error {
	f.events = append(f.events, event)
	return f.err
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func newTestCli(app App, version string, args ...string) (*cline.Cli, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cli := app.New(cline.Config{
		AppVersion: version,
		Args:       append([]string{}, args...),
		Out:        out,
	})
	return cli, out
}

func TestCalc_Resolve(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		version  string
		args     []string
		wantTask string
	}{
		{name: "no arguments", args: []string{}, wantTask: "help"},
		{name: "version without app version", args: []string{"--version"}, wantTask: "help"},
		{name: "version", version: "1.0.0", args: []string{"--version"}, wantTask: "version"},
		{name: "subtract", args: []string{"1", "2", "--sub"}, wantTask: "subtract"},
		{name: "sum", args: []string{"1", "2", "--sum"}, wantTask: "sum"},
		{name: "sum missing b", args: []string{"1", "--sum"}, wantTask: "help"},
		{name: "sum with non-numeric a", args: []string{"one", "2", "--sum"}, wantTask: "help"},
		{name: "both selectors prefer subtract", args: []string{"1", "2", "--sum", "--sub"}, wantTask: "subtract"},
		{name: "serve", args: []string{"--serve"}, wantTask: "serve"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cli, _ := newTestCli(App{}, tc.version, tc.args...)

			runner, err := cli.Resolve()
			require.NoError(t, err)
			require.Equal(t, tc.wantTask, runner.Name())
		})
	}
}

func TestCalc_SumScenario(t *testing.T) {
	t.Parallel()

	cli, out := newTestCli(App{}, "", "1", "2", "--sum")

	runner, err := cli.Resolve()
	require.NoError(t, err)
	sum, ok := runner.(*cline.Instance[NumberArgs])
	require.True(t, ok)
	require.Equal(t, 1, sum.Args().A)
	require.Equal(t, 2, sum.Args().B)

	code, err := sum.Invoke(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, code)
	require.Equal(t, "3\n", out.String())
}

func TestCalc_Run(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		version  string
		args     []string
		wantOut  string
		wantCode int
	}{
		{name: "sum", args: []string{"1", "2", "--sum"}, wantOut: "3\n", wantCode: 0},
		{name: "subtract", args: []string{"5", "3", "--sub"}, wantOut: "2\n", wantCode: 0},
		{name: "negative operand after terminator", args: []string{"--sum", "--", "5", "-3"}, wantOut: "2\n", wantCode: 0},
		{name: "negative operand", args: []string{"5", "-3", "--sub"}, wantOut: "8\n", wantCode: 0},
		{name: "negative first operand", args: []string{"-3", "5", "--sum"}, wantOut: "2\n", wantCode: 0},
		{name: "version", version: "1.1.1", args: []string{"--version"}, wantOut: "1.1.1\n", wantCode: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cli, out := newTestCli(App{}, tc.version, tc.args...)

			require.Equal(t, tc.wantCode, cli.Run(context.Background()))
			require.Equal(t, tc.wantOut, out.String())
		})
	}
}

func TestCalc_Help(t *testing.T) {
	t.Parallel()

	implicit, implicitOut := newTestCli(App{}, "")
	require.Equal(t, 1, implicit.Run(context.Background()))

	explicit, explicitOut := newTestCli(App{}, "", "--help")
	require.Equal(t, 0, explicit.Run(context.Background()))

	require.Equal(t, implicitOut.String(), explicitOut.String())
	require.Contains(t, explicitOut.String(), "calc [a] [b] [flags]")
	require.Contains(t, explicitOut.String(), "sums the numbers")
}

func TestCalc_JSONOutput(t *testing.T) {
	t.Parallel()

	cli, out := newTestCli(App{}, "", "5", "3", "--sub", "--json")
	require.Equal(t, 0, cli.Run(context.Background()))

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
	require.Equal(t, "subtract", payload["task"])
	require.Equal(t, float64(2), payload["result"])
}

func TestCalc_Publish(t *testing.T) {
	t.Parallel()

	publisher := &fakePublisher{}
	var got Settings
	app := App{NewPublisher: func(s Settings) ResultPublisher {
		got = s
		return publisher
	}}

	cli, out := newTestCli(app, "", "1", "2", "--sum", "--publish", "--channel", "sums")
	require.Equal(t, 0, cli.Run(context.Background()))

	require.Equal(t, "3\n", out.String())
	require.Equal(t, "sums", got.Channel)
	require.True(t, publisher.closed)
	require.Len(t, publisher.events, 1)
	require.Equal(t, "sum", publisher.events[0].Task)
	require.Equal(t, 3, publisher.events[0].Result)
}

func TestCalc_PublishFailure(t *testing.T) {
	t.Parallel()

	publisher := &fakePublisher{err: errors.New("redis is down")}
	app := App{NewPublisher: func(Settings) ResultPublisher { return publisher }}

	cli, out := newTestCli(app, "", "1", "2", "--sum", "--publish")
	require.Equal(t, 101, cli.Run(context.Background()))
	require.Equal(t, "3\n🔥 redis is down\n", out.String())
}

func TestCalc_Serve(t *testing.T) {
	t.Parallel()

	var got Settings
	app := App{Serve: func(ctx context.Context, s Settings, _ *slog.Logger) error {
		got = s
		<-ctx.Done()
		return ctx.Err()
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cli, out := newTestCli(app, "", "--serve", "--port", "9999", "--redis", "redis:6379")
	require.Equal(t, 100, cli.Run(ctx), "a cancelled feed is a user interrupt")
	require.Empty(t, out.String())
	require.Equal(t, "9999", got.Port)
	require.Equal(t, "redis:6379", got.RedisAddr)
}
