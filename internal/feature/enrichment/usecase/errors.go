package usecase

import "errors"

var (
	// ErrNotFound は外部ソースに該当データが存在しないことを表します。
	// （百科事典の項目なし、ジオコード結果なし、栄養データなし）
	ErrNotFound = errors.New("not found")

	// ErrPageNotFound はアトラスのページが存在しないこと（HTTP 404）を表します。
	ErrPageNotFound = errors.New("page not found")
)
