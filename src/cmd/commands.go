package cmd

// RegisterAllCommands 注册全部命令
func RegisterAllCommands() {
	RegisterRunCmd()
	RegisterScheduleCmd()
	RegisterKlineCmd()
	RegisterPingCmd()
}
