package handlers

import "cloud.google.com/go/bigquery"

func bigqueryNullFloat(v float64) bigquery.NullFloat64 {
	return bigquery.NullFloat64{Float64: v, Valid: true}
}

func bigqueryNullInt(v int64) bigquery.NullInt64 {
	return bigquery.NullInt64{Int64: v, Valid: true}
}

func bigqueryNullString(v string) bigquery.NullString {
	return bigquery.NullString{StringVal: v, Valid: true}
}
