package main

import (
	"github.com/turtacn/KeyIP-Dashboard/internal/config"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/database/redis"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/storage/minio"
)

// Config adapters: the infrastructure packages own their own settings
// structs, so the loaded Config is mapped onto them here.

func redisConfig(c config.RedisConfig) *redis.RedisConfig {
	return &redis.RedisConfig{
		Mode:         c.Mode,
		Addr:         c.Addr,
		Addrs:        c.Addrs,
		MasterName:   c.MasterName,
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     c.PoolSize,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
	}
}

func minioConfig(c config.MinIOConfig) *minio.MinIOConfig {
	return &minio.MinIOConfig{
		Enabled:         c.Endpoint != "",
		Endpoint:        c.Endpoint,
		AccessKeyID:     c.AccessKey,
		SecretAccessKey: c.SecretKey,
		UseSSL:          c.UseSSL,
		Region:          c.Region,
		Bucket:          c.Bucket,
		CreateBucket:    c.CreateBucket,
	}
}

func loggerConfig(c config.LogConfig) logging.LogConfig {
	lc := logging.LogConfig{Level: c.Level, Format: c.Format}
	if c.Output != "" {
		lc.OutputPaths = []string{c.Output}
	}
	return lc
}

//Personal.AI order the ending
