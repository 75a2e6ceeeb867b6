package client

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/dnscache"
)

var (
	resolver     = &dnscache.Resolver{}
	refreshOnce  sync.Once
	refreshEvery = 5 * time.Minute
)

// startRefresh keeps the shared resolver fresh. One goroutine serves every
// client in the process.
func startRefresh() {
	refreshOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(refreshEvery)
			defer ticker.Stop()
			for range ticker.C {
				resolver.Refresh(true)
			}
		}()
	})
}

func newTransport() *http.Transport {
	startRefresh()

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			ips, err := resolver.LookupHost(ctx, host)
			if err != nil {
				return nil, err
			}
			for _, ip := range ips {
				conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
				if err == nil {
					return conn, nil
				}
			}
			return nil, fmt.Errorf("failed to dial any resolved IP for %s", host)
		},
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	// Local repositories, e.g. file:///home/me/.m2/repository
	t.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))
	return t
}
