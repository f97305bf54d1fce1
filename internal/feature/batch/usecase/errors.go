package usecase

import "errors"

var (
	// ErrJobAlreadyRunning は同名のジョブが RUNNING のため実行しなかったことを示します。
	ErrJobAlreadyRunning = errors.New("job already running")

	// ErrJobNotFound は該当するジョブ履歴が無いことを示します。
	ErrJobNotFound = errors.New("job not found")
)
