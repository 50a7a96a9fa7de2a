// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"
	"log/slog"
	"math/big"
	"net"
	"net/http"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakeledger/builtin/staker"
	"github.com/vechain/stakeledger/builtin/staker/stakes"
	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/lvldb"
	"github.com/vechain/stakeledger/metrics"
	"github.com/vechain/stakeledger/thor"
)

func newHandler(w io.Writer, level *slog.LevelVar, jsonLogs bool) slog.Handler {
	if jsonLogs {
		return log.JSONHandlerWithLevel(w, level)
	}
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return log.NewTerminalHandlerWithLevel(w, level, useColor)
}

func initLogger(ctx *cli.Context) {
	jsonLogs := ctx.GlobalBool(jsonLogsFlag.Name)

	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(int(ctx.GlobalUint64(verbosityFlag.Name))))
	log.SetDefault(log.NewLogger(newHandler(os.Stderr, &level, jsonLogs)))

	var stakerLevel slog.LevelVar
	stakerLevel.Set(log.FromLegacyLevel(int(ctx.GlobalUint64(verbosityStakerFlag.Name))))
	staker.SetLogger(log.NewLogger(newHandler(os.Stderr, &stakerLevel, jsonLogs)).With("pkg", "staker"))
}

func loadConfig(ctx *cli.Context) (staker.Config, error) {
	cfg := staker.DefaultConfig()
	if path := ctx.GlobalString(configFlag.Name); path != "" {
		var err error
		if cfg, err = staker.LoadConfig(path); err != nil {
			return cfg, err
		}
	}
	if ctx.GlobalIsSet(maxValidatorsFlag.Name) {
		cfg.MaxValidators = ctx.GlobalInt(maxValidatorsFlag.Name)
	}
	return cfg, cfg.Validate()
}

func openDB(ctx *cli.Context) (*lvldb.LevelDB, error) {
	dir := ctx.GlobalString(dataDirFlag.Name)
	if dir == "" {
		return nil, errors.New("unable to infer default data dir, use -data-dir to specify")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create data dir %s", dir)
	}
	db, err := lvldb.New(filepath.Join(dir, "staker.db"), lvldb.Options{
		CacheSize:              64,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open staking database")
	}
	return db, nil
}

// startMetricsServer serves /metrics on addr and returns its url with a stop function.
func startMetricsServer(addr string) (string, func(), error) {
	metrics.InitializePrometheusMetrics()

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen metrics addr [%v]", addr)
	}

	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	handler := handlers.CompressHandler(router)

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics server stopped", "err", err)
		}
	}()
	return "http://" + listener.Addr().String() + "/metrics", func() {
		srv.Close()
		wg.Wait()
	}, nil
}

// parseAmount accepts decimal or 0x prefixed hex.
func parseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	var amount *big.Int
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		b, err := hexutil.Decode("0x" + s[2:])
		if err != nil {
			return nil, errors.Wrapf(err, "invalid amount %q", s)
		}
		amount = new(big.Int).SetBytes(b)
	} else {
		var ok bool
		if amount, ok = new(big.Int).SetString(s, 10); !ok {
			return nil, errors.Errorf("invalid amount %q", s)
		}
	}
	if !stakes.InRange(amount) {
		return nil, errors.Errorf("amount %q out of range", s)
	}
	return amount, nil
}

func parseKeys(args cli.Args, n int) ([]thor.PublicKey, error) {
	if len(args) < n {
		return nil, errors.Errorf("expected %d public keys, got %d", n, len(args))
	}
	keys := make([]thor.PublicKey, 0, n)
	for _, arg := range args[:n] {
		k, err := thor.ParsePublicKey(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid public key %q", arg)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// optionalAmount parses args[i] when present, nil means the whole delegation.
func optionalAmount(args cli.Args, i int) (*big.Int, error) {
	if len(args) <= i {
		return nil, nil
	}
	return parseAmount(args[i])
}

func requestTime(ctx *cli.Context) uint64 {
	if ctx.IsSet(atFlag.Name) {
		return ctx.Uint64(atFlag.Name)
	}
	return uint64(time.Now().Unix())
}

// copy from go-ethereum
func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.vechain.stakeledger")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.stakeledger")
		default:
			return filepath.Join(home, ".org.vechain.stakeledger")
		}
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
