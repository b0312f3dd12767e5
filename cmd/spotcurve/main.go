package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/meenmo/bondcurve/bond"
	"github.com/meenmo/bondcurve/config"
	"github.com/meenmo/bondcurve/curve"
	"github.com/meenmo/bondcurve/utils"
)

type bondOutput struct {
	ISIN           string  `json:"isin"`
	Maturity       string  `json:"maturity"`
	TimeToMaturity float64 `json:"time_to_maturity"`
	CleanPrice     float64 `json:"clean_price"`
	DirtyPrice     float64 `json:"dirty_price"`
	YTM            float64 `json:"ytm"`
	Iterations     int     `json:"iterations"`
	Error          string  `json:"error,omitempty"`
}

type pointOutput struct {
	Maturity float64 `json:"maturity"`
	Rate     float64 `json:"rate"`
}

type forwardOutput struct {
	Start  float64 `json:"start"`
	Length float64 `json:"length"`
	Rate   float64 `json:"rate"`
	Error  string  `json:"error,omitempty"`
}

type dayOutput struct {
	TaskID    string          `json:"task_id"`
	Date      string          `json:"date"`
	DayIndex  int             `json:"day_index"`
	Bonds     []bondOutput    `json:"bonds"`
	SpotCurve []pointOutput   `json:"spot_curve"`
	Forwards  []forwardOutput `json:"forwards,omitempty"`
	Error     string          `json:"error,omitempty"`
}

func main() {
	inputPath := flag.String("input", "", "bond universe JSON/YAML path (reads stdin if omitted)")
	configPath := flag.String("config", "", "run configuration (.toml, .yaml)")
	help := flag.Bool("h", false, "Show help")
	flag.BoolVar(help, "help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Fprintln(os.Stderr, "Usage: spotcurve -input <path> [-config <path>]")
		fmt.Fprintln(os.Stderr, "Compute dirty prices, YTMs, bootstrapped spot curves and forward rates per observation day.")
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("path", *configPath), slog.String("error", err.Error()))
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(2)
	}
	logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	path := strings.TrimSpace(*inputPath)
	if path == "" {
		if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			fmt.Fprintln(os.Stderr, "Usage: spotcurve -input <path> [-config <path>]")
			os.Exit(2)
		}
	}

	raw, err := readInput(path)
	if err != nil {
		exitError(logger, fmt.Sprintf("read input: %v", err))
	}
	in, err := parseUniverse(path, raw)
	if err != nil {
		exitError(logger, fmt.Sprintf("parse input: %v", err))
	}
	if in.TaskID == "" {
		in.TaskID = uuid.NewString()
	}
	logger = logger.With(slog.String("task_id", in.TaskID))

	outputs, hadError, err := run(context.Background(), logger, cfg, in)
	if err != nil {
		exitError(logger, err.Error())
	}

	b, _ := json.Marshal(outputs)
	fmt.Println(string(b))

	if hadError {
		os.Exit(1)
	}
}

// run prices the universe for every observation day. Per-bond and per-day
// failures are reported in the output; only malformed input returns an error.
func run(ctx context.Context, logger *slog.Logger, cfg *config.Config, in universeInput) ([]dayOutput, bool, error) {
	bonds, err := in.toBonds(cfg)
	if err != nil {
		return nil, false, err
	}
	days, err := in.toDays(cfg)
	if err != nil {
		return nil, false, err
	}
	template, err := cfg.Observation(days[0].Date)
	if err != nil {
		return nil, false, err
	}

	// Ordering the universe is the caller's job; Bootstrap trusts it.
	if !curve.IsAscending(bonds, days[0].Date) {
		logger.Warn("bond universe not in maturity order, sorting")
		bonds = curve.SortByMaturity(bonds)
	}

	series, err := curve.BootstrapSeries(ctx, bonds, days, template, cfg.BootstrapOptions())
	if err != nil {
		return nil, false, err
	}

	hadError := false
	outputs := make([]dayOutput, 0, len(days))
	for _, res := range series {
		obs := template
		obs.Date = res.Day.Date
		out := dayOutput{
			TaskID:   in.TaskID,
			Date:     isoDate(res.Day.Date),
			DayIndex: res.Day.DayIndex,
		}

		for i, b := range bonds {
			bo := priceBond(logger, cfg, b, i, res.Day.DayIndex, obs)
			if bo.Error != "" {
				hadError = true
			}
			out.Bonds = append(out.Bonds, bo)
		}

		for _, p := range res.Curve.Points() {
			out.SpotCurve = append(out.SpotCurve, pointOutput{Maturity: utils.RoundTo(p.Maturity, 12), Rate: utils.RoundTo(p.Rate, 12)})
		}
		if res.Err != nil {
			hadError = true
			out.Error = res.Err.Error()
			logger.Error("bootstrap failed",
				slog.String("date", out.Date),
				slog.Int("solved_points", res.Curve.Len()),
				slog.String("error", res.Err.Error()),
			)
		} else {
			logger.Info("curve bootstrapped", slog.String("date", out.Date), slog.Int("points", res.Curve.Len()))
		}

		// Bootstrap curves are in percent; forwards are taken on decimals and
		// reported back in percent.
		dec := res.Curve.Decimal()
		for _, tn := range cfg.ForwardTenors() {
			fo := forwardOutput{Start: tn.T, Length: tn.N}
			f, err := curve.ForwardRate(dec, tn.T, tn.N)
			if err != nil {
				hadError = true
				fo.Error = err.Error()
				logger.Warn("forward rate failed", slog.String("date", out.Date), slog.Float64("start", tn.T), slog.Float64("length", tn.N), slog.String("error", err.Error()))
			} else {
				fo.Rate = utils.RoundTo(f*100, 12)
			}
			out.Forwards = append(out.Forwards, fo)
		}

		outputs = append(outputs, out)
	}
	return outputs, hadError, nil
}

func priceBond(logger *slog.Logger, cfg *config.Config, b bond.Bond, idx, day int, obs bond.Observation) bondOutput {
	bo := bondOutput{
		ISIN:           b.ISIN,
		Maturity:       isoDate(b.Maturity),
		TimeToMaturity: b.TimeToMaturity(obs.Date),
	}

	clean, err := b.PriceAt(day)
	if err != nil {
		bo.Error = err.Error()
		return bo
	}
	bo.CleanPrice = clean
	bo.DirtyPrice = bond.DirtyPrice(clean, b.CouponRate, obs)

	res, err := bond.ComputeYTM(b, day, obs, cfg.SolverConfig())
	if err != nil {
		bo.Error = err.Error()
		logger.Warn("ytm failed", slog.String("bond", b.Label(idx)), slog.Int("day_index", day), slog.String("error", err.Error()))
		return bo
	}
	bo.YTM = utils.RoundTo(res.YTM, 12)
	bo.Iterations = res.Iterations
	logger.Debug("ytm solved", slog.String("bond", b.Label(idx)), slog.Int("day_index", day), slog.Float64("ytm", res.YTM), slog.Int("iterations", res.Iterations))
	return bo
}

func exitError(logger *slog.Logger, msg string) {
	logger.Error("spotcurve failed", slog.String("error", msg))
	b, _ := json.Marshal(dayOutput{Error: msg})
	fmt.Println(string(b))
	os.Exit(1)
}
