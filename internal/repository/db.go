package repository

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"linkly-go/internal/model"
	"linkly-go/pkg/logging"
)

var DB *gorm.DB

// InitDB 打开 SQLite 数据库并执行迁移。
// 整个系统按单进程单写者部署，WAL 模式允许读写并发，
// foreign_keys 开启后删除链接会级联删除点击记录。
func InitDB(logger *zap.Logger, atomicLogLevel zap.AtomicLevel) {
	path := viper.GetString("db.path")
	if path == "" {
		path = "linkly.db"
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logging.NewGormLogger(logger, logging.ToGormLogLevel(atomicLogLevel.Level())), // 注入 logger 并转换级别
	})
	if err != nil {
		logging.Logger.Fatal("Failed to connect database", zap.Error(err))
	}

	if err := Migrate(db); err != nil {
		logging.Logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	DB = db
}

// Migrate 执行表结构迁移，测试中也会对内存库调用。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Link{}, &model.Click{})
}
