package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")

	//一意制約違反（商品名・メールなど）
	ErrDuplicate = errors.New("duplicate")

	//楽観ロック・CAS更新に負けた
	ErrConflict = errors.New("conflict")
)
