package dbtypes

// DBEngineType selects engine specific queries. DBEngineAny marks the
// fallback query shared by all engines.
type DBEngineType int

const (
	DBEngineAny DBEngineType = iota
	DBEngineSqlite
	DBEnginePgsql
)

func (e DBEngineType) String() string {
	switch e {
	case DBEngineSqlite:
		return "sqlite"
	case DBEnginePgsql:
		return "pgsql"
	}
	return "any"
}
