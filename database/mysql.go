package database

import (
	"database/sql"
	"log"

	"github.com/tjgxx/DayZPDAServerTemplate/config"

	_ "github.com/go-sql-driver/mysql"
)

var DB *sql.DB

func Connect() error {
	var err error
	DB, err = sql.Open("mysql", config.Cfg.MysqlDSN)
	if err != nil {
		return err
	}

	if err = DB.Ping(); err != nil {
		return err
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(5)

	log.Println("Database connected successfully")
	return nil
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}

func CreateTables() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            VARCHAR(36) PRIMARY KEY,
			username      VARCHAR(50) NOT NULL,
			steam_id      VARCHAR(32) NOT NULL,
			password      VARCHAR(255) NOT NULL,
			faction       ENUM('LONER', 'SURVIVOR', 'BANDIT', 'TRADER', 'MEDIC', 'MILITARY') DEFAULT 'LONER',
			is_online     BOOLEAN DEFAULT FALSE,
			last_login_at DATETIME,
			created_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uk_username (username)
		)`,
		`CREATE TABLE IF NOT EXISTS friend_requests (
			id           VARCHAR(36) PRIMARY KEY,
			from_user_id VARCHAR(36) NOT NULL,
			to_user_id   VARCHAR(36) NOT NULL,
			status       ENUM('PENDING', 'ACCEPTED', 'DECLINED') DEFAULT 'PENDING',
			created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uk_pair (from_user_id, to_user_id),
			INDEX idx_to_status (to_user_id, status)
		)`,
		`CREATE TABLE IF NOT EXISTS friendships (
			id         VARCHAR(36) PRIMARY KEY,
			user_id    VARCHAR(36) NOT NULL,
			friend_id  VARCHAR(36) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uk_friendship (user_id, friend_id),
			INDEX idx_friend (friend_id)
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id           VARCHAR(36) PRIMARY KEY,
			sender_id    VARCHAR(36) NOT NULL,
			recipient_id VARCHAR(36),
			content      TEXT NOT NULL,
			is_anonymous BOOLEAN DEFAULT FALSE,
			created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_recipient_time (recipient_id, created_at),
			INDEX idx_created (created_at)
		)`,
		`CREATE TABLE IF NOT EXISTS notes (
			id         VARCHAR(36) PRIMARY KEY,
			owner_id   VARCHAR(36) NOT NULL,
			title      VARCHAR(255) NOT NULL,
			content    TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_owner (owner_id)
		)`,
	}

	for _, table := range tables {
		if _, err := DB.Exec(table); err != nil {
			return err
		}
	}

	log.Println("Database tables created successfully")
	return nil
}
