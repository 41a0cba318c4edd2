package config

import (
    "context"
    "crypto/tls"
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/redis/go-redis/v9"
)

// NewRedisClient builds the client backing the browse-endpoint response
// cache and the order-submission rate limiter.  Address resolution order:
// REDIS_HOST+REDIS_PORT, then REDIS_ADDR, then localhost:6379.
// REDIS_PASSWORD, REDIS_DB and REDIS_TLS are optional.
//
// A Redis outage must not take the rental service down with it, so when
// the initial ping fails this returns nil and the caller runs without
// caching or rate limiting.
func NewRedisClient() *redis.Client {
    addr := os.Getenv("REDIS_ADDR")
    if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
        addr = host + ":" + port
    }
    if addr == "" {
        addr = "localhost:6379"
    }

    dbNum := 0
    if s := os.Getenv("REDIS_DB"); s != "" {
        if n, err := strconv.Atoi(s); err == nil {
            dbNum = n
        }
    }

    var tlsConf *tls.Config
    if v := os.Getenv("REDIS_TLS"); v == "1" || strings.EqualFold(v, "true") {
        tlsConf = &tls.Config{InsecureSkipVerify: true}
    }

    client := redis.NewClient(&redis.Options{
        Addr:      addr,
        Password:  os.Getenv("REDIS_PASSWORD"),
        DB:        dbNum,
        TLSConfig: tlsConf,
    })

    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        return nil
    }
    return client
}
