// Package filter parses the compact filter grammar used by list endpoints.
//
// Grammar
//
//	filter   : clause ( ";" clause )* ;
//	clause   : FIELD ":" value ( "," value )* ( ":" OPERATOR )? ;
//
//	FIELD    : snake_case, kebab-case or camelCase name, normalized to camelCase ;
//	OPERATOR : "in" | "nin" | "gt" | "lt" | "gte" | "lte" | "like"
//	         | "null" | "notnull" | "eq" | "ne" ;
//
// The operator defaults to "in" and unknown operator tokens fall back to "in".
// A clause with fewer than two or more than three ":" parts is dropped
// without error. When a field repeats, the last clause wins.
//
// Examples
//
//	age:20:gt                 age > 20
//	age:18,20                 age IN (18, 20)
//	age::null                 age IS NULL
//	name:rex:like;age:3:lte   name LIKE '%rex%' AND age <= 3
//	year:2024;month:5         date_part('year', created) = 2024 AND date_part('month', created) = 5
//
// Range, like and equality operators only use the first value of the list,
// so "age:1,5:gt" is the same as "age:1:gt". The reserved fields "year" and
// "month" are not columns: the query package compiles them against the
// table's temporal column.
package filter
