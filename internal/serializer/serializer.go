package serializer

// Serializer 抽象了“对象 <-> 字节序列”的编解码能力。
//
// 调用方通过接口注入具体实现：DSONSerializer 产出宽松文本，
// JSONSerializer 与 MsgpackSerializer 分别产出标准 JSON 与二进制格式，
// 便于与其它系统交换数据。
type Serializer interface {
	// Marshal 将任意对象编码为字节序列。
	Marshal(v any) ([]byte, error)

	// Unmarshal 将字节序列解码到目标对象。
	//
	// v 通常为指针类型，用于接收解码结果。
	Unmarshal(data []byte, v any) error
}
