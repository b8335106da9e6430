package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"SignalPull/internal/service/alias"
	"SignalPull/internal/usecase"
	applogger "SignalPull/pkg/logger"
	"SignalPull/pkg/util"
)

const helpText = `commands:
  signal <instrument> [timeframe] [expiration]   compute a signal (defaults 1m 2m)
  list                                           show known instruments
  add <name> <symbol>                            register an instrument alias
  help                                           this text
  quit                                           exit`

// Console is an interactive line-based command surface over the signal
// requester. It reads commands from in and writes replies to out; both are
// injected so tests can drive it with buffers.
type Console struct {
	requester *usecase.SignalRequester
	aliases   *alias.Table
	logger    *applogger.Logger
	in        io.Reader
	out       io.Writer
}

func New(requester *usecase.SignalRequester, aliases *alias.Table, logger *applogger.Logger, in io.Reader, out io.Writer) *Console {
	return &Console{requester: requester, aliases: aliases, logger: logger, in: in, out: out}
}

// Run consumes commands until quit, EOF, or context cancellation. The read
// itself is not interruptible; cancellation is honored between commands.
func (con *Console) Run(ctx context.Context) error {
	con.printf("signal console, type 'help' for commands")
	sc := bufio.NewScanner(con.in)
	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch strings.ToLower(fields[0]) {
		case "quit", "exit":
			return nil
		case "help":
			con.printf("%s", helpText)
		case "list":
			con.list()
		case "add":
			con.add(fields[1:])
		case "signal":
			con.signal(ctx, fields[1:])
		default:
			con.printf("unknown command %q, type 'help'", fields[0])
		}
	}
	return sc.Err()
}

func (con *Console) list() {
	pairs := con.aliases.List()
	if len(pairs) == 0 {
		con.printf("no instruments registered")
		return
	}
	for _, p := range pairs {
		con.printf("%-16s %s", p.Name, p.Symbol)
	}
}

func (con *Console) add(args []string) {
	if len(args) != 2 {
		con.printf("usage: add <name> <symbol>")
		return
	}
	con.aliases.Add(args[0], args[1])
	con.printf("added %s -> %s", args[0], args[1])
}

func (con *Console) signal(ctx context.Context, args []string) {
	if len(args) == 0 {
		con.printf("usage: signal <instrument> [timeframe] [expiration]")
		return
	}
	instrument := args[0]
	tfStr, expStr := "1m", "2m"
	if len(args) > 1 {
		tfStr = args[1]
	}
	if len(args) > 2 {
		expStr = args[2]
	}

	timeframe, err := util.ParseDuration(tfStr)
	if err != nil {
		con.printf("bad timeframe %q: use e.g. 30s, 1m, 1h", tfStr)
		return
	}
	expiration, err := util.ParseDuration(expStr)
	if err != nil {
		con.printf("bad expiration %q: use e.g. 30s, 1m, 1h", expStr)
		return
	}

	res, err := con.requester.RequestSignal(ctx, instrument, timeframe, expiration)
	if err != nil {
		con.printf("error: %v", err)
		return
	}
	con.printf("%s %s tf=%s exp=%s", res.Verdict.Direction, res.Symbol,
		util.FormatDuration(res.Timeframe), util.FormatDuration(res.Expiration))
	con.printf("  rationale: %s", res.Verdict.Rationale)
	if res.LastPrice != 0 {
		con.printf("  last price: %.5f", res.LastPrice)
	}
}

func (con *Console) printf(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(con.out, format+"\n", args...); err != nil {
		con.logger.Warn("console write failed", applogger.Error(err))
	}
}
