package repository

import "errors"

// ErrNotFound возвращается, когда запись с корректным идентификатором
// отсутствует в хранилище
var ErrNotFound = errors.New("запись не найдена")
