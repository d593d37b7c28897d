package usecase

const MaxMessageLength = maxMessageLength
