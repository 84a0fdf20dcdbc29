package config

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// QuestionBankKey holds the public question bank (no answer key) as JSON.
func (r *CacheKeyStruct) QuestionBankKey() string {
	return "exam:questions"
}

// AnswerKeyKey holds the question id → correct option hash.
func (r *CacheKeyStruct) AnswerKeyKey() string {
	return "exam:answer_key"
}

var CacheKey = NewCacheKeyStruct()
