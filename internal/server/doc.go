// Package server exposes the pipeline over HTTP. The request and response
// bodies keep the Portuguese field names of the original automation flows
// so existing callers keep working: texto, transcricao, inicio, fim,
// duracao_total, usadas, reutilizadas, and erro for every failure.
package server
