package h1

import (
	"github.com/wireward/go-h1/internal/dialer"
	ihttp "github.com/wireward/go-h1/internal/http"
)

type Dialer = ihttp.Dialer
type CoreDialer = dialer.CoreDialer

type ResolveConfig = dialer.ResolveConfig
