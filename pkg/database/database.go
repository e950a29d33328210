package database

import (
	"docqa_backend/internal/config"
	"docqa_backend/internal/model"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.DBName,
		dbCfg.Charset,
		dbCfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release 模式默认跳过自动迁移，除非显式要求
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		err = db.AutoMigrate(
			&model.User{},
			&model.Document{},
			&model.InteractionRecord{},
			&model.QuizDetail{},
			&model.AnswerDetail{},
			&model.Feedback{},
			&model.ContestEntry{},
			&model.AdminRequest{},
		)

		if err != nil {
			return nil, err
		}

		log.Println("Database migration completed")
	}

	// 默认管理员账户
	if cfg.Admin.Email != "" {
		var count int64
		db.Model(&model.User{}).Where("email = ?", cfg.Admin.Email).Count(&count)
		if count == 0 {
			hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, err
			}
			admin := &model.User{
				Name:     cfg.Admin.Name,
				Surname:  cfg.Admin.Surname,
				Email:    cfg.Admin.Email,
				Password: string(hashed),
				Role:     model.Admin,
				Verified: true,
				Active:   true,
			}
			db.Create(admin)
		}
	}

	// 竞赛文档标记：配置中列出的文档名进入排行榜
	for _, name := range cfg.Contest.Documents {
		db.Model(&model.Document{}).
			Where("name = ?", name).
			Update("in_contest", true)
	}

	return db, nil
}
