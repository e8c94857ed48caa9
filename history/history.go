package history

import (
	"bufio"
	"encoding/json"
	"os"
	"path"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const historyFileName = ".treeconf_history"

// Item is one processed command line and the exit code of its outcome.
type Item struct {
	Cmd  string
	Ts   int64
	Code int
}

// NewHistoryHelper loads the history kept in folder filePath and opens it
// for appending. A history that cannot be opened is kept in memory only.
func NewHistoryHelper(filePath string, logger *zap.Logger) *Helper {
	if logger == nil {
		logger = zap.NewNop()
	}
	filePath = path.Join(filePath, historyFileName)
	lines, err := readItems(filePath)
	if err != nil && !os.IsNotExist(errors.UnwrapAll(err)) {
		logger.Warn("failed to read history file", zap.String("path", filePath), zap.Error(err))
	}

	if err := os.MkdirAll(path.Dir(filePath), os.ModePerm); err != nil {
		logger.Warn("failed to create history folder", zap.Error(err))
	}
	// open file and create if non-existent
	hFile, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Warn("failed to open history file", zap.String("path", filePath), zap.Error(err))
		hFile = nil
	}

	return &Helper{
		hFile:  hFile,
		items:  lines,
		logger: logger,
	}
}

func readItems(filePath string) ([]Item, error) {
	readFile, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open history file")
	}
	defer readFile.Close()

	var lines []Item
	fileScanner := bufio.NewScanner(readFile)
	fileScanner.Split(bufio.ScanLines)
	for fileScanner.Scan() {
		hi := Item{}
		// skip broken lines
		if err := json.Unmarshal(fileScanner.Bytes(), &hi); err == nil {
			lines = append(lines, hi)
		}
	}
	return lines, errors.Wrap(fileScanner.Err(), "failed to scan history file")
}

// Helper command history helper.
type Helper struct {
	items  []Item
	hFile  *os.File
	logger *zap.Logger
}

// AddLog add cmd log and its outcome code into history helper.
func (h *Helper) AddLog(cmd string, code int) {
	// skip empty line
	if len(strings.TrimSpace(cmd)) == 0 {
		return
	}
	hi := Item{
		Ts:   time.Now().Unix(),
		Cmd:  cmd,
		Code: code,
	}
	if h.hFile != nil {
		bs, _ := json.Marshal(hi)
		if _, err := h.hFile.Write(append(bs, '\n')); err != nil {
			h.logger.Warn("failed to write history", zap.Error(err))
		}
	}
	h.items = append(h.items, hi)
}

// List all history items with prefix.
func (h *Helper) List(input string) []Item {
	return lo.Filter(h.items, func(item Item, _ int) bool {
		return strings.HasPrefix(item.Cmd, input)
	})
}

// Failed lists the history items whose outcome was not a success.
func (h *Helper) Failed() []Item {
	return lo.Filter(h.items, func(item Item, _ int) bool {
		return item.Code != 0
	})
}

func (h *Helper) Close() {
	if h.hFile != nil {
		h.hFile.Close()
	}
}
