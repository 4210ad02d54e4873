package conf

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/zeptools/db-core/sqldb"
)

// LoadSQLDBConfs reads config/.sql-databases.json under appRoot: a map of
// database name to sqldb.Conf. A config/.env file, when present, is loaded
// first and ${VAR} references in the JSON are expanded from the
// environment, so credentials can stay out of the JSON file.
func LoadSQLDBConfs(appRoot string) (map[string]*sqldb.Conf, error) {
	envFilePath := filepath.Join(appRoot, "config", ".env")
	if _, err := os.Stat(envFilePath); err == nil {
		if err := godotenv.Load(envFilePath); err != nil {
			return nil, fmt.Errorf("loading %s: %w", envFilePath, err)
		}
		log.Printf("[INFO] loaded env file %s", envFilePath)
	}
	confFilePath := filepath.Join(appRoot, "config", ".sql-databases.json")
	confBytes, err := os.ReadFile(confFilePath) // ([]byte, error)
	if err != nil {
		return nil, err
	}
	expanded := os.ExpandEnv(string(confBytes))
	confs := make(map[string]*sqldb.Conf)
	if err = json.Unmarshal([]byte(expanded), &confs); err != nil {
		return nil, err
	}
	return confs, nil
}

// PrepareSQLDBClient builds and initializes the named client.
// Use after LoadSQLDBConfs and implementation Register() calls.
func PrepareSQLDBClient(confs map[string]*sqldb.Conf, dbName string) (sqldb.Client, error) {
	dbConf, ok := confs[dbName]
	if !ok {
		return nil, fmt.Errorf("no configuration for database %q", dbName)
	}
	dbClient, err := sqldb.New(dbConf.Type, dbConf)
	if err != nil {
		return nil, err
	}
	if err = dbClient.Init(); err != nil {
		return nil, err
	}
	return dbClient, nil
}
