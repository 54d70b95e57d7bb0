package repository

import "errors"

// 行が見つからないことを表す共通エラー（GORMのErrRecordNotFoundは外に漏らさない）
var ErrNotFound = errors.New("not found")
