package squareclient

import (
	"time"

	"github.com/zyzyva/square-client/internal/shared/config"
	"github.com/zyzyva/square-client/internal/shared/logutil"
	"github.com/zyzyva/square-client/internal/squareclient/implementations"
	"github.com/zyzyva/square-client/internal/squareclient/squareapi"
)

func NewClient(log logutil.Log, cfg config.Config) squareapi.Client {
	c := implementations.NewSquare(log, cfg)
	return implementations.NewStableClient(c, time.Second*30, 3)
}
