package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"os"

	"quiz_backend/internal/config"
	"quiz_backend/internal/util"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

//go:embed questionbank/*.yaml
var bundledBanks embed.FS

const defaultBankFile = "questionbank/french.yaml"

// BankSource 题库文件的来源
type BankSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Name() string
}

// EmbeddedBankSource 随程序打包的题库
type EmbeddedBankSource struct {
	File string
}

func (p *EmbeddedBankSource) Open(ctx context.Context) (io.ReadCloser, error) {
	data, err := bundledBanks.ReadFile(p.File)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (p *EmbeddedBankSource) Name() string {
	return "embedded:" + p.File
}

// LocalBankSource 本地文件
type LocalBankSource struct {
	Path string
}

func (p *LocalBankSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return os.Open(p.Path)
}

func (p *LocalBankSource) Name() string {
	return "local:" + p.Path
}

// MinioBankSource 对象存储中的题库，BankPath 为对象名
type MinioBankSource struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioBankSource(cfg *config.StorageConfig) (*MinioBankSource, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioBankSource{Config: cfg, Client: client}, nil
}

func (p *MinioBankSource) Open(ctx context.Context) (io.ReadCloser, error) {
	obj, err := p.Client.GetObject(ctx, p.Config.MinioBucket, p.Config.BankPath, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject 是懒加载的，先 Stat 一次让不存在的对象尽早报错
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

func (p *MinioBankSource) Name() string {
	return fmt.Sprintf("minio:%s/%s", p.Config.MinioBucket, p.Config.BankPath)
}

// NewBankSource 根据配置选择题库来源
func NewBankSource(cfg *config.StorageConfig) (BankSource, error) {
	switch cfg.BankSource {
	case util.BankSourceEmbedded, "":
		return &EmbeddedBankSource{File: defaultBankFile}, nil
	case util.BankSourceLocal:
		if cfg.BankPath == "" {
			return nil, fmt.Errorf("storage.bank_path is required for the local bank source")
		}
		return &LocalBankSource{Path: cfg.BankPath}, nil
	case util.BankSourceMinio:
		if cfg.BankPath == "" {
			return nil, fmt.Errorf("storage.bank_path is required for the minio bank source")
		}
		return NewMinioBankSource(cfg)
	default:
		return nil, fmt.Errorf("unsupported question bank source %q", cfg.BankSource)
	}
}
