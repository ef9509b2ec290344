package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// parseSymbols 解析逗号分隔的标的列表，统一大写
func parseSymbols(raw string) []string {
	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

// loadSymbolsFromFile 从文本文件加载标的列表，每行一个
func loadSymbolsFromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open symbols file: %w", err)
	}
	defer f.Close()

	var symbols []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		s := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if s != "" {
			symbols = append(symbols, s)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read symbols file: %w", err)
	}
	return symbols, nil
}

// dedupeSymbols 去重，保留首次出现的顺序
func dedupeSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// resolveSymbols 确定本轮的标的列表：-s优先，其次-f，最后落回配置
func resolveSymbols(symbolsArg, fileArg string, configured []string) ([]string, error) {
	var symbols []string
	switch {
	case symbolsArg != "":
		symbols = parseSymbols(symbolsArg)
	case fileArg != "":
		loaded, err := loadSymbolsFromFile(fileArg)
		if err != nil {
			return nil, err
		}
		symbols = loaded
	default:
		for _, s := range configured {
			symbols = append(symbols, strings.ToUpper(strings.TrimSpace(s)))
		}
	}

	symbols = dedupeSymbols(symbols)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols provided")
	}
	return symbols, nil
}
