package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Sidd1211/rerender.dev/internal/engine"
)

func WriteJSON(scanID, outDir string, rep *engine.Report) (string, error) {
	path := filepath.Join(outDir, scanID+".json")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return "", err
	}
	return path, nil
}
