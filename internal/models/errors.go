package models

import "errors"

// ErrAccountNotFound возвращается слоями хранения и бизнес-логики,
// когда записи с указанным идентификатором нет.
var ErrAccountNotFound = errors.New("account not found")
