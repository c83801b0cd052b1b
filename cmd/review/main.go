package main

import (
	"bytes"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"

	"github.com/zeromicro/go-zero/core/logx"

	"ledger-sol-parser/internal/config"
	"ledger-sol-parser/internal/logic/offchain"
	"ledger-sol-parser/internal/pkg/logger"
	"ledger-sol-parser/internal/types"
	"ledger-sol-parser/internal/utils"
)

var (
	configFile  = flag.String("f", "etc/review.yaml", "the config file, empty for built-in defaults")
	messagePath = flag.String("m", "", "hex encoded off-chain message file, or a directory of *.hex files")
	signerKey   = flag.String("k", "", "base58 signer pubkey")
)

// outcome 单个消息文件的审阅结果
type outcome struct {
	path  string
	lines []string
	size  int
	err   error
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
			os.Exit(2)
		}
	}()

	flag.Parse()

	c, err := config.Load(*configFile)
	if err != nil {
		logx.Errorf("load config failed: %v", err)
		os.Exit(1)
	}

	if err := logger.Init(c.LogConf.ToLogOption()); err != nil {
		logx.Errorf("init logger failed: %v", err)
		os.Exit(1)
	}

	if err := run(c.ReviewConf); err != nil {
		logger.Errorf("[Review] %v", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run(cfg config.ReviewConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if *messagePath == "" || *signerKey == "" {
		return fmt.Errorf("both -m and -k are required")
	}

	signer, err := types.TryPubkeyFromBase58(*signerKey)
	if err != nil {
		return fmt.Errorf("invalid signer %q: %w", *signerKey, err)
	}

	files, err := collectFiles(*messagePath)
	if err != nil {
		return err
	}

	// 每个文件独立持有缓冲区与摘要，可并发审阅
	reviewer := offchain.NewReviewer(cfg)
	outcomes := utils.ParallelMap(files, runtime.NumCPU(), func(path string) outcome {
		return reviewFile(reviewer, path, signer)
	})

	rejected := 0
	for _, o := range outcomes {
		if o.err != nil {
			rejected++
			logger.Warnf("[Review] %s 被拒绝: %v", o.path, o.err)
			continue
		}
		fmt.Printf("== %s\n", o.path)
		for _, line := range o.lines {
			fmt.Println(line)
		}
		fmt.Printf("payload: %d bytes\n", o.size)
	}

	logger.Infof("[Review] 完成: 总数=%d, 拒绝=%d", len(outcomes), rejected)
	if rejected > 0 {
		return fmt.Errorf("%d of %d messages rejected", rejected, len(outcomes))
	}
	return nil
}

// collectFiles path 为目录时返回其中按名称排序的 *.hex 文件
func collectFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	files, err := filepath.Glob(filepath.Join(path, "*.hex"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no *.hex files in %s", path)
	}
	sort.Strings(files)
	return files, nil
}

func reviewFile(reviewer *offchain.Reviewer, path string, signer types.Pubkey) outcome {
	o := outcome{path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		o.err = err
		return o
	}
	buf, err := hex.DecodeString(string(bytes.TrimSpace(raw)))
	if err != nil {
		o.err = fmt.Errorf("decode hex message: %w", err)
		return o
	}

	result, err := reviewer.Review(buf, signer)
	if err != nil {
		o.err = err
		return o
	}

	logger.Debugf("[Review] %s: 展示项=%d, siws=%v, ascii=%v", path, result.NumItems(), result.SIWS != nil, result.IsASCII)
	for i := 0; i < result.NumItems(); i++ {
		title, text, err := result.DisplayItem(i)
		if err != nil {
			o.err = err
			return o
		}
		o.lines = append(o.lines, fmt.Sprintf("%s: %s", title, text))
	}
	o.size = len(result.SigningPayload())
	return o
}
