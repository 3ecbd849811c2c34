package atombios

import "strconv"

// CommandTableId names one of the card's command tables. Numbering and
// names are standard across cards (not every card populates every table)
// and come from the linux driver's atombios table list.
type CommandTableId uint8

const (
	ASICInit CommandTableId = iota
	GetDisplaySurfaceSize
	ASICRegistersInit
	VRAMBlockVenderDetection
	DIGxEncoderControl
	MemoryControllerInit
	EnableCRTCMemReq
	MemoryParamAdjust
	DVOEncoderControl
	GPIOPinControl
	SetEngineClock
	SetMemoryClock
	SetPixelClock
	EnableDispPowerGating
	ResetMemoryDLL
	ResetMemoryDevice
	MemoryPLLInit
	AdjustDisplayPll
	AdjustMemoryController
	EnableASICStaticPwrMgt
	SetUniphyInstance
	DACLoadDetection
	LVTMAEncoderControl
	HWMiscOperation
	DAC1EncoderControl
	DAC2EncoderControl
	DVOOutputControl
	CV1OutputControl
	GetConditionalGoldenSetting
	TVEncoderControl
	PatchMCSetting
	MCSEQControl
	GfxHarvesting
	EnableScaler
	BlankCRTC
	EnableCRTC
	GetPixelClock
	EnableVGARender
	GetSCLKOverMCLKRatio
	SetCRTCTiming
	SetCRTCOverScan
	SetCRTCReplication
	SelectCRTCSource
	EnableGraphSurfaces
	UpdateCRTCDoubleBufferRegisters
	LUTAutoFill
	EnableHWIconCursor
	GetMemoryClock
	GetEngineClock
	SetCRTCUsingDTDTiming
	ExternalEncoderControl
	LVTMAOutputControl
	VRAMBlockDetectionByStrap
	MemoryCleanUp
	ProcessI2cChannelTransaction
	WriteOneByteToHWAssistedI2C
	ReadHWAssistedI2CStatus
	SpeedFanControl
	PowerConnectorDetection
	MCSynchronization
	ComputeMemoryEnginePLL
	MemoryRefreshConversion
	VRAMGetCurrentInfoBlock
	DynamicMemorySettings
	MemoryTraining
	EnableSpreadSpectrumOnPPLL
	TMDSAOutputControl
	SetVoltage
	DAC1OutputControl
	DAC2OutputControl
	ComputeMemoryClockParam
	ClockSource
	MemoryDeviceInit
	GetDispObjectInfo
	DIG1EncoderControl
	DIG2EncoderControl
	DIG1TransmitterControl
	DIG2TransmitterControl
	ProcessAuxChannelTransaction
	DPEncoderService
	GetVoltageInfo
)

var commandTableNames = map[CommandTableId]string{
	ASICInit:                        "ASIC_Init",
	GetDisplaySurfaceSize:           "GetDisplaySurfaceSize",
	ASICRegistersInit:               "ASIC_RegistersInit",
	VRAMBlockVenderDetection:        "VRAM_BlockVenderDetection",
	DIGxEncoderControl:              "DIGxEncoderControl",
	MemoryControllerInit:            "MemoryControllerInit",
	EnableCRTCMemReq:                "EnableCRTCMemReq",
	MemoryParamAdjust:               "MemoryParamAdjust",
	DVOEncoderControl:               "DVOEncoderControl",
	GPIOPinControl:                  "GPIOPinControl",
	SetEngineClock:                  "SetEngineClock",
	SetMemoryClock:                  "SetMemoryClock",
	SetPixelClock:                   "SetPixelClock",
	EnableDispPowerGating:           "EnableDispPowerGating",
	ResetMemoryDLL:                  "ResetMemoryDLL",
	ResetMemoryDevice:               "ResetMemoryDevice",
	MemoryPLLInit:                   "MemoryPLLInit",
	AdjustDisplayPll:                "AdjustDisplayPll",
	AdjustMemoryController:          "AdjustMemoryController",
	EnableASICStaticPwrMgt:          "EnableASIC_StaticPwrMgt",
	SetUniphyInstance:               "SetUniphyInstance",
	DACLoadDetection:                "DAC_LoadDetection",
	LVTMAEncoderControl:             "LVTMAEncoderControl",
	HWMiscOperation:                 "HW_Misc_Operation",
	DAC1EncoderControl:              "DAC1EncoderControl",
	DAC2EncoderControl:              "DAC2EncoderControl",
	DVOOutputControl:                "DVOOutputControl",
	CV1OutputControl:                "CV1OutputControl",
	GetConditionalGoldenSetting:     "GetConditionalGoldenSetting",
	TVEncoderControl:                "TVEncoderControl",
	PatchMCSetting:                  "PatchMCSetting",
	MCSEQControl:                    "MC_SEQ_Control",
	GfxHarvesting:                   "Gfx_Harvesting",
	EnableScaler:                    "EnableScaler",
	BlankCRTC:                       "BlankCRTC",
	EnableCRTC:                      "EnableCRTC",
	GetPixelClock:                   "GetPixelClock",
	EnableVGARender:                 "EnableVGA_Render",
	GetSCLKOverMCLKRatio:            "GetSCLKOverMCLKRatio",
	SetCRTCTiming:                   "SetCRTC_Timing",
	SetCRTCOverScan:                 "SetCRTC_OverScan",
	SetCRTCReplication:              "SetCRTC_Replication",
	SelectCRTCSource:                "SelectCRTC_Source",
	EnableGraphSurfaces:             "EnableGraphSurfaces",
	UpdateCRTCDoubleBufferRegisters: "UpdateCRTC_DoubleBufferRegisters",
	LUTAutoFill:                     "LUT_AutoFill",
	EnableHWIconCursor:              "EnableHW_IconCursor",
	GetMemoryClock:                  "GetMemoryClock",
	GetEngineClock:                  "GetEngineClock",
	SetCRTCUsingDTDTiming:           "SetCRTC_UsingDTDTiming",
	ExternalEncoderControl:          "ExternalEncoderControl",
	LVTMAOutputControl:              "LVTMAOutputControl",
	VRAMBlockDetectionByStrap:       "VRAM_BlockDetectionByStrap",
	MemoryCleanUp:                   "MemoryCleanUp",
	ProcessI2cChannelTransaction:    "ProcessI2cChannelTransaction",
	WriteOneByteToHWAssistedI2C:     "WriteOneByteToHWAssistedI2C",
	ReadHWAssistedI2CStatus:         "ReadHWAssistedI2CStatus",
	SpeedFanControl:                 "SpeedFanControl",
	PowerConnectorDetection:         "PowerConnectorDetection",
	MCSynchronization:               "MC_Synchronization",
	ComputeMemoryEnginePLL:          "ComputeMemoryEnginePLL",
	MemoryRefreshConversion:         "MemoryRefreshConversion",
	VRAMGetCurrentInfoBlock:         "VRAM_GetCurrentInfoBlock",
	DynamicMemorySettings:           "DynamicMemorySettings",
	MemoryTraining:                  "MemoryTraining",
	EnableSpreadSpectrumOnPPLL:      "EnableSpreadSpectrumOnPPLL",
	TMDSAOutputControl:              "TMDSAOutputControl",
	SetVoltage:                      "SetVoltage",
	DAC1OutputControl:               "DAC1OutputControl",
	DAC2OutputControl:               "DAC2OutputControl",
	ComputeMemoryClockParam:         "ComputeMemoryClockParam",
	ClockSource:                     "ClockSource",
	MemoryDeviceInit:                "MemoryDeviceInit",
	GetDispObjectInfo:               "GetDispObjectInfo",
	DIG1EncoderControl:              "DIG1EncoderControl",
	DIG2EncoderControl:              "DIG2EncoderControl",
	DIG1TransmitterControl:          "DIG1TransmitterControl",
	DIG2TransmitterControl:          "DIG2TransmitterControl",
	ProcessAuxChannelTransaction:    "ProcessAuxChannelTransaction",
	DPEncoderService:                "DPEncoderService",
	GetVoltageInfo:                  "GetVoltageInfo",
}

var commandTableByName map[string]CommandTableId

func init() {
	commandTableByName = make(map[string]CommandTableId, len(commandTableNames))
	for id, name := range commandTableNames {
		commandTableByName[name] = id
	}
}

func (id CommandTableId) String() string {
	if name, ok := commandTableNames[id]; ok {
		return name
	}
	return "CommandTable(" + strconv.Itoa(int(id)) + ")"
}

// ParseCommandTableId looks up a CommandTableId by its canonical name, for
// use by callers (e.g. the CLI) that take a table name on the command line.
func ParseCommandTableId(name string) (CommandTableId, bool) {
	id, ok := commandTableByName[name]
	return id, ok
}
