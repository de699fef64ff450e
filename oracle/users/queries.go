package users

const (
	userColumns = `id, email, name, password_hash, provider, provider_id, plan,
		minutes_left_today, used_minutes_today, last_reset_date, language,
		subscription_id, chat_history, readings, created_at, updated_at`

	queryCreate = `
		INSERT INTO users (id, email, name, password_hash, provider, provider_id, plan,
			minutes_left_today, used_minutes_today, last_reset_date, language,
			subscription_id, chat_history, readings)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + userColumns

	queryFindByID = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`

	queryFindByEmail = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`

	queryFindOrCreateByProvider = `
		INSERT INTO users (id, email, name, provider, provider_id, plan,
			minutes_left_today, used_minutes_today, last_reset_date, language,
			chat_history, readings)
		VALUES ($1, $2, $3, $4, $5, 'none', 0, 0, $6, 'en', '[]', '[]')
		ON CONFLICT (provider, provider_id) WHERE provider <> ''
		DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			updated_at = NOW()
		RETURNING ` + userColumns

	queryAttachProvider = `
		UPDATE users
		SET provider = $2,
			provider_id = $3,
			name = COALESCE(NULLIF(name, ''), $4),
			updated_at = NOW()
		WHERE email = $1
		RETURNING ` + userColumns + `
	`

	queryLockByID = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
		FOR UPDATE
	`

	queryUpdate = `
		UPDATE users
		SET email = $2,
			name = $3,
			password_hash = $4,
			plan = $5,
			minutes_left_today = $6,
			used_minutes_today = $7,
			last_reset_date = $8,
			language = $9,
			subscription_id = $10,
			chat_history = $11,
			readings = $12,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
)
