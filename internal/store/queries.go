package store

import "github.com/agenthands/moviesearch/internal/core/model"

const (
	FindMoviesQuery = `
		MATCH (m:%s)
		%s
		RETURN %s
		LIMIT $limit
	`

	PingQuery = `RETURN 1 AS ok`
)

var graphProperties = map[model.Field]string{
	model.FieldGenre:            "genres",
	model.FieldKeyword:          "keywords",
	model.FieldVoteAverage:      "vote_average",
	model.FieldRuntime:          "runtime",
	model.FieldOriginalLanguage: "original_language",
}

var listProperties = map[model.Field]bool{
	model.FieldGenre:   true,
	model.FieldKeyword: true,
}

var cypherOperators = map[model.Operator]string{
	model.OpEq:  "=",
	model.OpNe:  "<>",
	model.OpGt:  ">",
	model.OpGte: ">=",
	model.OpLt:  "<",
	model.OpLte: "<=",
}
