package services

import (
	"os"
	"path/filepath"

	"complaints-etl/storage"
	"complaints-etl/utils"
)

// AirbnbTables are the CSV extracts converted into insert scripts.
var AirbnbTables = []string{"host", "listing", "amenities", "ratings", "neighborhood"}

// ScriptService converts Airbnb CSV extracts into INSERT scripts.
type ScriptService struct {
	writer         *storage.InsertScriptWriter
	maxConcurrency int
	logger         *utils.Logger
}

func NewScriptService(writer *storage.InsertScriptWriter, maxConcurrency int, logger *utils.Logger) *ScriptService {
	return &ScriptService{
		writer:         writer,
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}
}

// ConvertDir converts <dir>/<table>.csv for each table. Missing files are
// skipped with a warning; other failures are returned joined. The result
// maps table name to statements written.
func (s *ScriptService) ConvertDir(dir string, tables []string) (map[string]int, error) {
	counts := utils.NewCounter()
	pool := utils.NewWorkerPool(s.maxConcurrency, 0)

	for _, table := range tables {
		table := table
		path := filepath.Join(dir, table+".csv")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			s.logger.Warn("[airbnb] %s not found, skipping", path)
			continue
		}
		pool.Submit(func() error {
			n, err := s.writer.Convert(path)
			if err != nil {
				s.logger.Error("[airbnb] %s: %v", table, err)
				return err
			}
			counts.Set(table, n)
			s.logger.Info("[airbnb] %s: %d insert statements", table, n)
			return nil
		})
	}

	err := pool.Wait()
	return counts.Snapshot(), err
}
